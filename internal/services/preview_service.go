package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tlmonitor/dashboard/internal/models"
)

// MessageQuerier reads messages for a preview.
type MessageQuerier interface {
	QueryMessages(ctx context.Context, jobCode, countryCode string, start, end time.Time) (models.RowSet, error)
}

type PreviewService struct {
	store  MessageQuerier
	logger *zap.Logger
}

func NewPreviewService(store MessageQuerier, logger *zap.Logger) *PreviewService {
	return &PreviewService{store: store, logger: logger}
}

// Preview counts the messages matching a selection.
func (s *PreviewService) Preview(ctx context.Context, sel models.Selection) (models.MessageSummary, error) {
	rows, err := s.store.QueryMessages(ctx, models.PreviewJobCode, sel.CountryCode, sel.StartDate, sel.EndDate)
	if err != nil {
		return models.MessageSummary{}, err
	}

	summary := Summarize(rows)
	s.logger.Info("selection previewed",
		zap.String("country", sel.CountryCode),
		zap.String("start_date", sel.StartDate.Format(models.DateLayout)),
		zap.String("end_date", sel.EndDate.Format(models.DateLayout)),
		zap.Int("messages", summary.Total))
	return summary, nil
}
