package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/villages"
)

// Ensure LoggingSubmitter implements villages.Submitter.
var _ villages.Submitter = (*LoggingSubmitter)(nil)

// LoggingSubmitter wraps a Submitter with logging.
type LoggingSubmitter struct {
	next   villages.Submitter
	logger *slog.Logger
}

// NewLoggingSubmitter creates a new LoggingSubmitter.
func NewLoggingSubmitter(next villages.Submitter, logger *slog.Logger) *LoggingSubmitter {
	return &LoggingSubmitter{next: next, logger: logger}
}

// Submit delegates to the wrapped submitter and logs the outcome.
func (s *LoggingSubmitter) Submit(ctx context.Context, html string) (sub *villages.Submission, err error) {
	defer func(begin time.Time) {
		attrs := []any{"duration", time.Since(begin)}
		if sub != nil {
			attrs = append(attrs, "extracted", len(sub.Villages), "added", sub.Added, "total", sub.Total)
		}
		if err != nil {
			s.logger.Error("submit", append(attrs, "code", villages.ErrorCode(err), "err", err)...)
			return
		}
		s.logger.Info("submit", attrs...)
	}(time.Now())
	return s.next.Submit(ctx, html)
}
