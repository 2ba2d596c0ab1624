package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/soaringjerry/Flourish/internal/catalog"
	"github.com/soaringjerry/Flourish/internal/middleware"
	"github.com/soaringjerry/Flourish/internal/models"
	"github.com/soaringjerry/Flourish/internal/services"
	"github.com/soaringjerry/Flourish/internal/utils"
)

const defaultDomainListLimit = 3

var errUnknownDomain = errors.New("unknown domain in report")

type Handler struct {
	reports *services.ReportService
	logger  zerolog.Logger
}

func NewHandler(reports *services.ReportService, logger zerolog.Logger) *Handler {
	return &Handler{reports: reports, logger: logger}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.POST("/report", h.CreateReport)
		api.POST("/insights", h.CreateInsights)
		api.GET("/catalog/domains", h.GetDomains)
		api.GET("/catalog/resources", h.GetResources)
	}
}

// CreateReport scores a submission and returns the full report, or its CSV
// rendering when format=csv.
func (h *Handler) CreateReport(c *gin.Context) {
	var sub services.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		h.reject(c, http.StatusBadRequest, err)
		return
	}
	report, err := h.reports.GenerateFull(c.Request.Context(), sub)
	if err != nil {
		h.reject(c, statusFor(err), err)
		return
	}

	if c.Query("format") == "csv" {
		h.writeCSV(c, report)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"report":               report,
		"recommendations_text": flattened(report.Insights),
	})
}

func (h *Handler) writeCSV(c *gin.Context, report *models.ReportData) {
	var (
		data []byte
		err  error
		name = "flourish-" + report.ID
	)
	if c.Query("detail") == "responses" {
		data, err = services.ExportResponsesCSV(report.DomainResults, locale(c))
		name += "-responses"
	} else {
		data, err = services.ExportDomainCSV(report.DomainResults)
	}
	if err != nil {
		h.reject(c, http.StatusInternalServerError, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".csv"))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// CreateInsights attaches narrative and resources to a report that was
// scored earlier.
func (h *Handler) CreateInsights(c *gin.Context) {
	var report models.ReportData
	if err := c.ShouldBindJSON(&report); err != nil {
		h.reject(c, http.StatusBadRequest, err)
		return
	}
	if err := h.checkReport(report); err != nil {
		h.reject(c, http.StatusBadRequest, err)
		return
	}
	if err := h.reports.Enrich(c.Request.Context(), &report); err != nil {
		h.reject(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":              true,
		"insights":             report.Insights,
		"resources":            report.Resources,
		"recommendations_text": flattened(report.Insights),
	})
}

// checkReport requires a respondent profile, canonical domain ids and
// averages on the scale.
func (h *Handler) checkReport(report models.ReportData) error {
	if err := services.ValidateProfile(report.UserInfo); err != nil {
		return err
	}
	if len(report.DomainResults) == 0 {
		return errors.New("report has no domain results")
	}
	for _, d := range report.DomainResults {
		if _, ok := h.reports.Catalog().Domain(d.DomainID); !ok {
			return fmt.Errorf("%w: %q", errUnknownDomain, d.DomainID)
		}
		if d.AverageScore < 0 || d.AverageScore > models.MaxValue {
			return fmt.Errorf("domain %s: average %v out of range", d.DomainID, d.AverageScore)
		}
	}
	return nil
}

func (h *Handler) GetDomains(c *gin.Context) {
	cat := h.reports.Catalog()
	loc := locale(c)
	labels := make(map[int]string, models.MaxValue)
	for v := models.MinValue; v <= models.MaxValue; v++ {
		labels[v] = services.ResponseLabel(loc, v)
	}
	c.JSON(http.StatusOK, gin.H{
		"version":         cat.Version,
		"context":         cat.Context,
		"domains":         cat.Domains,
		"supplementary":   cat.Supplementary,
		"response_labels": labels,
		"question_count":  cat.QuestionCount(),
	})
}

// GetResources lists curated links for one domain at a given score.
func (h *Handler) GetResources(c *gin.Context) {
	id, err := catalog.ParseDomainID(c.Query("domain"))
	if err != nil {
		h.reject(c, http.StatusBadRequest, err)
		return
	}
	score, err := strconv.ParseFloat(c.DefaultQuery("score", "0"), 64)
	if err != nil || score < 0 || score > models.MaxValue {
		h.reject(c, http.StatusBadRequest, fmt.Errorf("bad score %q", c.Query("score")))
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultDomainListLimit)))
	if err != nil || limit <= 0 {
		limit = defaultDomainListLimit
	}
	tier := services.ScoreTierFor(score)
	resources := h.reports.Matcher().ResourcesForDomain(id, score, limit)
	c.JSON(http.StatusOK, gin.H{
		"domain":     id,
		"bucket":     catalog.BucketFor(score),
		"tier":       tier,
		"tier_label": tier.Label(locale(c)),
		"resources":  resources,
		"count":      len(resources),
	})
}

// reject logs the real cause and answers with the single localized message.
func (h *Handler) reject(c *gin.Context, status int, err error) {
	h.logger.Warn().Err(err).Str("path", c.Request.URL.Path).Int("status", status).Msg("request rejected")
	c.AbortWithStatusJSON(status, gin.H{"error": utils.T(locale(c), "report.unavailable")})
}

func statusFor(err error) int {
	if se, ok := services.AsServiceError(err); ok && se.Code == services.ErrorInvalid {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func locale(c *gin.Context) string {
	return middleware.LocaleFromContext(c.Request.Context())
}

func flattened(in *models.AIInsights) []string {
	if in == nil {
		return []string{}
	}
	return services.FormatRecommendations(*in)
}
