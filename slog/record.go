package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/villages"
)

// Ensure LoggingRecordService implements villages.RecordService.
var _ villages.RecordService = (*LoggingRecordService)(nil)

// LoggingRecordService wraps a RecordService with debug logging.
type LoggingRecordService struct {
	next   villages.RecordService
	logger *slog.Logger
}

// NewLoggingRecordService creates a new LoggingRecordService.
func NewLoggingRecordService(next villages.RecordService, logger *slog.Logger) *LoggingRecordService {
	return &LoggingRecordService{next: next, logger: logger}
}

// FindRecords delegates to the wrapped service and logs the operation.
func (s *LoggingRecordService) FindRecords(ctx context.Context) (records []*villages.Record, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find records",
			"count", len(records),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindRecords(ctx)
}

// InsertRecords delegates to the wrapped service and logs the operation.
func (s *LoggingRecordService) InsertRecords(ctx context.Context, records []*villages.Record) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("insert records",
			"count", len(records),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.InsertRecords(ctx, records)
}

// ReplaceRecords delegates to the wrapped service and logs the operation.
func (s *LoggingRecordService) ReplaceRecords(ctx context.Context, records []*villages.Record) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("replace records",
			"count", len(records),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.ReplaceRecords(ctx, records)
}

// DeleteRecords delegates to the wrapped service and logs the operation.
func (s *LoggingRecordService) DeleteRecords(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("delete records",
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteRecords(ctx)
}
