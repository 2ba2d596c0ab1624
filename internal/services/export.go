package services

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/soaringjerry/Flourish/internal/models"
)

// ExportDomainCSV renders one row per domain result, in report order.
func ExportDomainCSV(results []models.DomainResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"domain_id", "domain_name", "average_score", "agree_count", "total_questions", "flourishing_threshold", "is_flourishing"})
	for _, r := range results {
		rec := []string{
			r.DomainID.String(),
			r.DomainName,
			strconv.FormatFloat(r.AverageScore, 'f', 2, 64),
			strconv.Itoa(r.AgreeCount),
			strconv.Itoa(r.TotalQuestions),
			strconv.Itoa(r.FlourishingThreshold),
			strconv.FormatBool(r.IsFlourishing),
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// ExportResponsesCSV renders the scored answers in long format with the
// localized response label next to each value.
func ExportResponsesCSV(results []models.DomainResult, locale string) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	_ = w.Write([]string{"domain_id", "question_id", "value", "label"})
	for _, r := range results {
		for _, resp := range r.Responses {
			rec := []string{
				r.DomainID.String(),
				strconv.Itoa(resp.QuestionID),
				strconv.Itoa(resp.Value),
				ResponseLabel(locale, resp.Value),
			}
			if err := w.Write(rec); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
