package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"sensor-analytics-api/analytics"
	"sensor-analytics-api/broadcast"
	"sensor-analytics-api/models"
)

const analyticsEndpoint = "/api/v1/analytics"

// SnapshotSource produces one analytics snapshot per call.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*models.AnalyticsResult, error)
}

type AnalyticsHandler struct {
	source    SnapshotSource
	publisher broadcast.Publisher
	metrics   *Metrics
	logger    *slog.Logger
	now       func() time.Time
}

func NewAnalyticsHandler(source SnapshotSource, publisher broadcast.Publisher, metrics *Metrics, logger *slog.Logger) *AnalyticsHandler {
	if publisher == nil {
		publisher = broadcast.Nop{}
	}
	return &AnalyticsHandler{
		source:    source,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

func (h *AnalyticsHandler) HandleAnalytics(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	defer func() {
		h.metrics.requestDurationSeconds.WithLabelValues(r.Method, analyticsEndpoint).Observe(time.Since(start).Seconds())
	}()

	logger := loggerFromContext(r.Context(), h.logger)

	result, err := h.source.Snapshot(r.Context())
	if err != nil {
		h.metrics.analyticsFailures.WithLabelValues(failureStage(err)).Inc()
		h.metrics.httpRequestsTotal.WithLabelValues(r.Method, analyticsEndpoint, "500").Inc()
		logger.Error("analytics snapshot failed", slog.Any("err", err))
		respondError(w, logger, errInternal)
		return
	}

	if err := result.Validate(); err != nil {
		h.metrics.analyticsFailures.WithLabelValues("validate").Inc()
		h.metrics.httpRequestsTotal.WithLabelValues(r.Method, analyticsEndpoint, "500").Inc()
		logger.Error("analytics result rejected", slog.Any("err", err))
		respondError(w, logger, errInternal)
		return
	}

	h.publish(r.Context(), logger, result.Summary(h.now()))

	respondJSON(w, logger, http.StatusOK, result)
	h.metrics.httpRequestsTotal.WithLabelValues(r.Method, analyticsEndpoint, "200").Inc()
}

// publish broadcasts in the background; the response never waits on Redis.
func (h *AnalyticsHandler) publish(ctx context.Context, logger *slog.Logger, summary models.SnapshotSummary) {
	ctx = context.WithoutCancel(ctx)
	go func() {
		if err := h.publisher.Publish(ctx, summary); err != nil {
			h.metrics.snapshotsPublished.WithLabelValues("error").Inc()
			logger.Warn("snapshot publish failed", slog.Any("err", err))
			return
		}
		h.metrics.snapshotsPublished.WithLabelValues("ok").Inc()
	}()
}

func failureStage(err error) string {
	switch {
	case errors.Is(err, analytics.ErrInvalidArgument):
		return "generate"
	case errors.Is(err, analytics.ErrEmptyInput):
		return "summarize"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "unknown"
	}
}
