// Package history reads the stored predictions page by page and turns a
// loaded page, or one record, into a downloadable CSV or JSON file.
package history

import (
	"context"
	"fmt"

	"oncology-dashboard/internal/models"
)

// Pager fetches one page of the prediction history.
type Pager interface {
	PredictionHistory(ctx context.Context, page int) (*models.PredictionHistoryPage, error)
}

// Service serves history pages. Every call goes to the backend; pages are
// never cached.
type Service struct {
	pager Pager
}

// NewService creates a Service.
func NewService(p Pager) *Service {
	return &Service{pager: p}
}

// FetchPage returns page number page (1-based).
func (s *Service) FetchPage(ctx context.Context, page int) (*models.PredictionHistoryPage, error) {
	if page < 1 {
		page = 1
	}
	res, err := s.pager.PredictionHistory(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch prediction history page %d: %w", page, err)
	}
	if res.Results == nil {
		res.Results = []models.PredictionRecord{}
	}
	return res, nil
}

// Find returns the record with id from a loaded page.
func Find(records []models.PredictionRecord, id int64) (models.PredictionRecord, bool) {
	for _, r := range records {
		if r.ID == id {
			return r, true
		}
	}
	return models.PredictionRecord{}, false
}

// CountByType counts the records of each prediction type.
func CountByType(records []models.PredictionRecord) map[models.PredictionType]int {
	counts := map[models.PredictionType]int{
		models.PredictionTreatment: 0,
		models.PredictionSurvival:  0,
		models.PredictionImage:     0,
	}
	for _, r := range records {
		counts[r.PredictionType]++
	}
	return counts
}
