package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tlmonitor/dashboard/internal/config"
	"github.com/tlmonitor/dashboard/internal/models"
)

type recordingPublisher struct {
	events []models.JobEvent
	err    error
}

func (p *recordingPublisher) PublishJobEvent(ctx context.Context, event models.JobEvent) error {
	p.events = append(p.events, event)
	return p.err
}

func newTestConfig(urls map[string]string) *config.Config {
	return &config.Config{JobURLs: urls}
}

func TestJobService_Prepare(t *testing.T) {
	svc := NewJobService(newTestConfig(map[string]string{"CLASSIFY_URL": "http://classify.local/jobs"}), http.DefaultClient, nil, zap.NewNop())

	req, err := svc.Prepare(map[string]string{"country": "poland", "request": "classify", "labels": "x"})
	require.NoError(t, err)
	assert.Equal(t, "http://classify.local/jobs", req.URL)
	assert.Equal(t, "classify", req.Request)
	assert.Equal(t, "poland_classify.yaml", req.Payload["config_file"])
}

func TestJobService_Prepare_Errors(t *testing.T) {
	svc := NewJobService(newTestConfig(map[string]string{"CLASSIFY_URL": "http://classify.local/jobs"}), http.DefaultClient, nil, zap.NewNop())

	_, err := svc.Prepare(map[string]string{"country": "poland", "request": "translate"})
	assert.ErrorIs(t, err, models.ErrUnknownJobType)

	_, err = svc.Prepare(map[string]string{"country": "poland", "request": "wordfreq"})
	assert.ErrorIs(t, err, ErrNoDispatchURL)

	_, err = svc.Prepare(map[string]string{"country": "", "request": "classify"})
	assert.ErrorIs(t, err, models.ErrUnknownCountry)
}

func TestJobService_Submit(t *testing.T) {
	var (
		gotBody        map[string]any
		gotContentType string
		gotRequestID   string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotRequestID = r.Header.Get("X-Request-ID")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	publisher := &recordingPublisher{}
	svc := NewJobService(newTestConfig(map[string]string{"WORDFREQ_URL": server.URL}), server.Client(), publisher, zap.NewNop())

	req, err := svc.Prepare(map[string]string{"country": "ukraine", "request": "wordfreq", "labels": "a, b"})
	require.NoError(t, err)

	event, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, event.ID, gotRequestID)
	assert.Equal(t, map[string]any{
		"country_code": "UKR",
		"config_file":  "ukraine_wordfreq.yaml",
		"labels":       []any{"a", "b"},
		"multi_label":  true,
	}, gotBody)

	assert.True(t, event.Success)
	assert.Equal(t, http.StatusAccepted, event.Status)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, "UKR", publisher.events[0].CountryCode)
}

func TestJobService_Submit_StatusPolicy(t *testing.T) {
	tests := []struct {
		status  int
		success bool
	}{
		{http.StatusOK, true},
		{http.StatusAccepted, true},
		{http.StatusCreated, false},
		{http.StatusNotFound, false},
		{http.StatusInternalServerError, false},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			svc := NewJobService(newTestConfig(nil), server.Client(), nil, zap.NewNop())
			event, err := svc.Submit(context.Background(), models.JobRequest{Request: "classify", URL: server.URL, Payload: models.JobPayload{}})

			assert.Equal(t, tt.success, err == nil)
			assert.Equal(t, tt.success, event.Success)
			assert.Equal(t, tt.status, event.Status)
			if !tt.success {
				assert.ErrorIs(t, err, ErrDispatchRejected)
			}
		})
	}
}

func TestJobService_Submit_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	publisher := &recordingPublisher{err: errors.New("redis down")}
	svc := NewJobService(newTestConfig(nil), http.DefaultClient, publisher, zap.NewNop())

	event, err := svc.Submit(context.Background(), models.JobRequest{Request: "classify", URL: url, Payload: models.JobPayload{}})
	require.Error(t, err)
	assert.False(t, event.Success)
	assert.Zero(t, event.Status)
	assert.Len(t, publisher.events, 1)
}
