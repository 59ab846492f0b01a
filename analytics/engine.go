package analytics

import (
	"context"
	"fmt"
	"log/slog"

	"sensor-analytics-api/models"
)

const DefaultRecordCount = 150

// GeneratedCallback is invoked with the number of readings fabricated for a
// snapshot.
type GeneratedCallback func(count int)

// AnalyticsEngine runs Generator then Summarize for every snapshot. It holds
// no state between calls besides the generator's random source.
type AnalyticsEngine struct {
	generator   *Generator
	recordCount int
	logger      *slog.Logger
	onGenerated GeneratedCallback
}

func NewAnalyticsEngine(generator *Generator, recordCount int, logger *slog.Logger, onGenerated GeneratedCallback) *AnalyticsEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyticsEngine{
		generator:   generator,
		recordCount: recordCount,
		logger:      logger,
		onGenerated: onGenerated,
	}
}

func (ae *AnalyticsEngine) RecordCount() int {
	return ae.recordCount
}

// Snapshot fabricates a fresh dataset and summarizes it.
func (ae *AnalyticsEngine) Snapshot(ctx context.Context) (*models.AnalyticsResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	readings, err := ae.generator.Generate(ae.recordCount)
	if err != nil {
		return nil, fmt.Errorf("generate readings: %w", err)
	}
	if ae.onGenerated != nil {
		ae.onGenerated(len(readings))
	}

	result, err := Summarize(readings)
	if err != nil {
		return nil, fmt.Errorf("summarize readings: %w", err)
	}

	ae.logger.DebugContext(ctx, "snapshot computed",
		slog.Int("records", result.TotalRecords),
		slog.Float64("average_temp", result.AverageTemp),
		slog.Float64("average_humidity", result.AverageHumidity),
	)

	return result, nil
}
