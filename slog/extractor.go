package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/villages"
)

// Ensure LoggingExtractor implements villages.Extractor.
var _ villages.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with debug logging.
type LoggingExtractor struct {
	next   villages.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next villages.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the operation.
// An empty result is logged at warn level since it usually means the
// pasted page is not the village selection page.
func (e *LoggingExtractor) Extract(html string) (records []*villages.Record, err error) {
	defer func(begin time.Time) {
		level := slog.LevelDebug
		if err == nil && len(records) == 0 {
			level = slog.LevelWarn
		}
		attrs := []any{
			"bytes", len(html),
			"count", len(records),
			"duration", time.Since(begin),
			"err", err,
		}
		if len(records) > 0 {
			attrs = append(attrs, "district", records[0].DistrictValue, "taluk", records[0].TalukValue, "hobli", records[0].HobliValue)
		}
		e.logger.Log(context.Background(), level, "extract", attrs...)
	}(time.Now())
	return e.next.Extract(html)
}
