package mock

import (
	"context"

	"github.com/fwojciec/villages"
)

var (
	_ villages.Merger    = (*Merger)(nil)
	_ villages.Submitter = (*Submitter)(nil)
)

// Merger is a mock implementation of villages.Merger.
type Merger struct {
	MergeFn func(ctx context.Context, batch []*villages.Record) ([]*villages.Record, int, error)
	ResetFn func(ctx context.Context) error
}

func (m *Merger) Merge(ctx context.Context, batch []*villages.Record) ([]*villages.Record, int, error) {
	return m.MergeFn(ctx, batch)
}

func (m *Merger) Reset(ctx context.Context) error {
	return m.ResetFn(ctx)
}

// Submitter is a mock implementation of villages.Submitter.
type Submitter struct {
	SubmitFn func(ctx context.Context, html string) (*villages.Submission, error)
}

func (s *Submitter) Submit(ctx context.Context, html string) (*villages.Submission, error) {
	return s.SubmitFn(ctx, html)
}
