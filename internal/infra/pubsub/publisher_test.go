package pubsub

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"

	"tripstore/config"
	"tripstore/internal/domain/service"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLocalHTTPPublisher_PublishMigrationCompleted(t *testing.T) {
	var got PubSubPushMessage
	var requestID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID = r.Header.Get("X-Request-Id")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	publisher := NewLocalHTTPPublisher(srv.URL, discardLogger())
	event := &service.MigrationCompletedEvent{
		RequestID:   "req-1",
		MigrationID: "mig-1",
		Direction:   "relational_to_document",
		Status:      "completed",
		Processed:   3,
		StartTime:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, publisher.PublishMigrationCompleted(context.Background(), event))

	assert.Equal(t, "req-1", requestID)
	assert.Equal(t, "mig-1", got.Message.MessageID)
	assert.Equal(t, "completed", got.Message.Attributes["status"])

	data, err := base64.StdEncoding.DecodeString(got.Message.Data)
	require.NoError(t, err)
	var decoded service.MigrationCompletedEvent
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, int64(3), decoded.Processed)
	assert.Equal(t, "relational_to_document", decoded.Direction)
}

func TestLocalHTTPPublisher_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	publisher := NewLocalHTTPPublisher(srv.URL, discardLogger())
	err := publisher.PublishMigrationCompleted(context.Background(), &service.MigrationCompletedEvent{MigrationID: "mig-1"})
	assert.Error(t, err)
}

func TestNewEventPublisher_Selection(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.PubSubConfig
		wantErr bool
	}{
		{name: "unset uses noop", cfg: nil},
		{name: "empty provider uses noop", cfg: &config.PubSubConfig{}},
		{name: "local requires endpoint", cfg: &config.PubSubConfig{Provider: "local"}, wantErr: true},
		{name: "local", cfg: &config.PubSubConfig{Provider: "local", LocalEndpoint: "http://localhost:9999/events"}},
		{name: "google requires project", cfg: &config.PubSubConfig{Provider: "google", TopicID: "t"}, wantErr: true},
		{name: "unknown provider", cfg: &config.PubSubConfig{Provider: "kafka"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{PubSub: tt.cfg}
			publisher, err := NewEventPublisher(PublisherParams{
				Lc:     fxtest.NewLifecycle(t),
				Ctx:    context.Background(),
				Config: cfg,
				Logger: discardLogger(),
			})
			if tt.wantErr {
				assert.Error(t, err)

				return
			}
			require.NoError(t, err)
			assert.NoError(t, publisher.PublishMigrationCompleted(context.Background(), &service.MigrationCompletedEvent{MigrationID: "m"}))
		})
	}
}
