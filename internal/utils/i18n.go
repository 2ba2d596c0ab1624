package utils

// Server-side strings for fixed keys. Question text stays in the catalog.

var translations = map[string]map[string]string{
	"en": {
		"health.ok":          "ok",
		"report.unavailable": "unable to generate report",
		"response.1":         "Strongly Disagree",
		"response.2":         "Disagree",
		"response.3":         "Somewhat Disagree",
		"response.4":         "Somewhat Agree",
		"response.5":         "Agree",
		"response.6":         "Strongly Agree",
		"tier.strong":        "Strong",
		"tier.good":          "Good",
		"tier.developing":    "Developing",
		"tier.attention":     "Needs Attention",
	},
	"zh": {
		"health.ok":          "好的",
		"report.unavailable": "无法生成报告",
		"response.1":         "非常不同意",
		"response.2":         "不同意",
		"response.3":         "有点不同意",
		"response.4":         "有点同意",
		"response.5":         "同意",
		"response.6":         "非常同意",
		"tier.strong":        "优秀",
		"tier.good":          "良好",
		"tier.developing":    "发展中",
		"tier.attention":     "需要关注",
	},
}

// SupportedLocales lists the locales T has tables for, default first.
var SupportedLocales = []string{"en", "zh"}

// T returns the translated string for key in locale; falls back to English.
func T(locale, key string) string {
	if m, ok := translations[locale]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if m, ok := translations["en"]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	return key
}
