package merge

import (
	"context"

	"github.com/fwojciec/villages"
)

// Ensure Submitter implements villages.Submitter at compile time.
var _ villages.Submitter = (*Submitter)(nil)

// Submitter runs one pasted page through extraction and merging.
type Submitter struct {
	Extractor villages.Extractor
	Merger    villages.Merger
}

// NewSubmitter creates a new Submitter.
func NewSubmitter(extractor villages.Extractor, merger villages.Merger) *Submitter {
	return &Submitter{Extractor: extractor, Merger: merger}
}

// Submit extracts the page's records and merges them into the store.
// A storage failure fails the whole submission; the unpersisted batch is
// not returned.
func (s *Submitter) Submit(ctx context.Context, html string) (*villages.Submission, error) {
	batch, err := s.Extractor.Extract(html)
	if err != nil {
		return nil, err
	}

	records, added, err := s.Merger.Merge(ctx, batch)
	if err != nil {
		return nil, err
	}

	return &villages.Submission{
		Villages: batch,
		Added:    added,
		Total:    len(records),
	}, nil
}
