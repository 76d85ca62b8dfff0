package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"tripstore/config"
	"tripstore/internal/backend"
	deliverycontext "tripstore/internal/delivery/context"
	"tripstore/internal/domain/constants"
	"tripstore/internal/domain/entity"
	"tripstore/internal/domain/repository"
	"tripstore/internal/domain/service"
	"tripstore/internal/errors"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

// PubSubMessage represents the structure of a Pub/Sub push message
type PubSubMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// retryableError wraps an error to indicate it should trigger a Pub/Sub retry
type retryableError struct {
	err error
}

func (e *retryableError) Error() string {
	return fmt.Sprintf("retryable: %v", e.err)
}

func (e *retryableError) Unwrap() error {
	return e.err
}

// newRetryableError wraps an error as retryable
func newRetryableError(err error) error {
	return &retryableError{err: err}
}

// isRetryableError checks if an error is retryable
func isRetryableError(err error) bool {
	var re *retryableError

	return errors.As(err, &re)
}

// StoreResolver resolves the repository set of a backend kind.
type StoreResolver interface {
	Store(ctx context.Context, kind backend.Kind) (*repository.Set, error)
}

// CountDrift is one entity type whose target holds fewer records than its source.
type CountDrift struct {
	EntityType entity.EntityType
	Source     int64
	Target     int64
}

// PushHandler audits finished migrations: for every migrated entity type it
// recounts both stores and reports types whose target fell behind the source.
type PushHandler struct {
	verifyPushAuth bool
	logger         *slog.Logger
	stores         StoreResolver
}

// PushHandlerParams holds dependencies for the PushHandler
type PushHandlerParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
	Stores StoreResolver
}

// NewPushHandler creates a new Pub/Sub push handler
func NewPushHandler(params PushHandlerParams) *PushHandler {
	// Determine if we need to verify push auth based on config
	verifyPushAuth := params.Config.PubSub != nil &&
		params.Config.PubSub.Provider == constants.PubSubProviderGoogle &&
		params.Config.Env.Env != constants.EnvDevelop

	return &PushHandler{
		verifyPushAuth: verifyPushAuth,
		logger:         params.Logger,
		stores:         params.Stores,
	}
}

// HandlePush handles incoming Pub/Sub push messages
func (h *PushHandler) HandlePush(c echo.Context) error {
	ctx := c.Request().Context()

	// Verify Pub/Sub token in production for Google provider
	if h.verifyPushAuth {
		if err := verifyPubSubToken(c.Request()); err != nil {
			h.logger.Warn("[Worker] Invalid Pub/Sub token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	var pushMsg PubSubMessage
	if err := c.Bind(&pushMsg); err != nil {
		h.logger.Error("[Worker] Failed to parse push message", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	data, err := base64.StdEncoding.DecodeString(pushMsg.Message.Data)
	if err != nil {
		h.logger.Error("[Worker] Failed to decode message data", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	var event service.MigrationCompletedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		h.logger.Error("[Worker] Failed to parse migration event", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	// Priority: message attributes > event field > existing context
	requestID := h.extractRequestID(ctx, &pushMsg, &event)
	reqLogger := h.logger.With(
		slog.String("request_id", requestID),
		slog.String("migration_id", event.MigrationID),
	)
	ctx = deliverycontext.WithRequestID(ctx, requestID)
	ctx = deliverycontext.WithLogger(ctx, reqLogger)

	reqLogger.Info("[Worker] Auditing migration",
		slog.String("direction", event.Direction),
		slog.String("status", event.Status),
		slog.Any("entity_types", event.EntityTypes),
	)

	drift, err := h.auditCounts(ctx, &event)
	if err != nil {
		reqLogger.Error("[Worker] Failed to audit migration",
			slog.Any("error", err),
			slog.Bool("retryable", isRetryableError(err)),
		)
		// Return 503 for retryable errors to trigger Pub/Sub retry
		// Return 200 for non-retryable errors to prevent infinite retries
		if isRetryableError(err) {
			return c.NoContent(http.StatusServiceUnavailable)
		}

		return c.NoContent(http.StatusOK)
	}

	// A cancelled run is expected to leave the target behind.
	level := slog.LevelWarn
	if event.Cancelled {
		level = slog.LevelInfo
	}
	for _, d := range drift {
		reqLogger.Log(ctx, level, "[Worker] Target behind source",
			slog.String("entity_type", string(d.EntityType)),
			slog.Int64("source", d.Source),
			slog.Int64("target", d.Target),
		)
	}
	reqLogger.Info("[Worker] Migration audited", slog.Int("drifted_types", len(drift)))

	return c.NoContent(http.StatusOK)
}

// extractRequestID extracts request_id from message attributes, event, or generates a new one
func (h *PushHandler) extractRequestID(ctx context.Context, pushMsg *PubSubMessage, event *service.MigrationCompletedEvent) string {
	if requestID, ok := pushMsg.Message.Attributes["request_id"]; ok && requestID != "" {
		return requestID
	}

	if event.RequestID != "" {
		return event.RequestID
	}

	// From RequestIDMiddleware via X-Request-Id header
	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		return requestID
	}

	return uuid.New().String()
}

// auditCounts recounts every migrated entity type on both sides. Malformed
// events are not retried; unreachable stores are.
func (h *PushHandler) auditCounts(ctx context.Context, event *service.MigrationCompletedEvent) ([]CountDrift, error) {
	direction := backend.Direction(event.Direction)
	if !direction.IsValid() {
		return nil, errors.Errorf("unknown direction %q", event.Direction)
	}

	source, err := h.stores.Store(ctx, direction.Source())
	if err != nil {
		return nil, newRetryableError(errors.Wrap(err, "resolve source"))
	}
	target, err := h.stores.Store(ctx, direction.Target())
	if err != nil {
		return nil, newRetryableError(errors.Wrap(err, "resolve target"))
	}

	var drift []CountDrift
	for _, raw := range event.EntityTypes {
		t, ok := entity.ParseEntityType(raw)
		if !ok {
			return nil, errors.Errorf("unknown entity type %q", raw)
		}

		sourceCount, err := source.Count(ctx, t)
		if err != nil {
			return nil, newRetryableError(errors.Wrapf(err, "count source %s", t))
		}
		targetCount, err := target.Count(ctx, t)
		if err != nil {
			return nil, newRetryableError(errors.Wrapf(err, "count target %s", t))
		}

		if targetCount < sourceCount {
			drift = append(drift, CountDrift{EntityType: t, Source: sourceCount, Target: targetCount})
		}
	}

	return drift, nil
}

// verifyPubSubToken verifies the OIDC token from Google Pub/Sub
func verifyPubSubToken(req *http.Request) error {
	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		return errors.New("missing authorization header")
	}

	token, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found {
		return errors.New("invalid authorization header format")
	}

	// The audience is the URL of this endpoint
	scheme := "https"
	if req.TLS == nil {
		scheme = "http" // For local development
	}
	audience := fmt.Sprintf("%s://%s%s", scheme, req.Host, req.URL.Path)

	payload, err := idtoken.Validate(req.Context(), token, audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	return nil
}
