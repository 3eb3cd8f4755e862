package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tlmonitor/dashboard/internal/config"
	"github.com/tlmonitor/dashboard/internal/models"
)

var (
	// ErrNoDispatchURL is returned when a job type has no configured endpoint.
	ErrNoDispatchURL = errors.New("no dispatch url configured")
	// ErrDispatchRejected is returned when the downstream answers with anything but 200 or 202.
	ErrDispatchRejected = errors.New("job rejected by downstream service")
)

// EventPublisher receives one event per dispatch attempt.
type EventPublisher interface {
	PublishJobEvent(ctx context.Context, event models.JobEvent) error
}

type JobService struct {
	cfg       *config.Config
	client    *http.Client
	publisher EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewJobService builds the dispatcher. publisher may be nil.
func NewJobService(cfg *config.Config, client *http.Client, publisher EventPublisher, logger *zap.Logger) *JobService {
	return &JobService{
		cfg:       cfg,
		client:    client,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Prepare builds the payload and resolves where it must be sent.
func (s *JobService) Prepare(form map[string]string) (models.JobRequest, error) {
	payload, _, request, err := BuildJobPayload(form)
	if err != nil {
		return models.JobRequest{}, err
	}

	if _, err := models.ParseJobType(request); err != nil {
		return models.JobRequest{}, err
	}
	url, ok := s.cfg.JobURL(request)
	if !ok {
		return models.JobRequest{}, fmt.Errorf("%w: %s", ErrNoDispatchURL, request)
	}

	return models.JobRequest{Request: request, URL: url, Payload: payload}, nil
}

// Submit posts the job once. There is no retry.
func (s *JobService) Submit(ctx context.Context, req models.JobRequest) (models.JobEvent, error) {
	event := models.JobEvent{
		ID:          uuid.New().String(),
		JobType:     req.Request,
		SubmittedAt: s.now().UTC(),
	}
	event.CountryCode, _ = req.Payload["country_code"].(string)
	event.ConfigFile, _ = req.Payload["config_file"].(string)

	status, err := s.post(ctx, event.ID, req)
	event.Status = status
	event.Success = err == nil

	if err != nil {
		s.logger.Error("job dispatch failed",
			zap.String("job_id", event.ID),
			zap.String("job_type", req.Request),
			zap.Int("status", status),
			zap.Error(err))
	} else {
		s.logger.Info("job dispatched",
			zap.String("job_id", event.ID),
			zap.String("job_type", req.Request),
			zap.String("config_file", event.ConfigFile),
			zap.Int("status", status))
	}

	if s.publisher != nil {
		if perr := s.publisher.PublishJobEvent(ctx, event); perr != nil {
			s.logger.Warn("failed to publish job event", zap.String("job_id", event.ID), zap.Error(perr))
		}
	}

	return event, err
}

func (s *JobService) post(ctx context.Context, requestID string, req models.JobRequest) (int, error) {
	body, err := json.Marshal(req.Payload)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal job payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, req.URL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to build job request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("failed to send job: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return resp.StatusCode, fmt.Errorf("%w: status %d", ErrDispatchRejected, resp.StatusCode)
	}
	return resp.StatusCode, nil
}
