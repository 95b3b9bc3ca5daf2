// Package merge deduplicates extracted village records against the stored
// history and writes the result back according to the configured policy.
package merge

import (
	"context"
	"fmt"
	"sync"

	"github.com/fwojciec/villages"
)

// Dedupe returns existing followed by batch with every record whose identity
// was already seen removed. The first record for an identity wins, so stored
// labels are kept when a new record collides with them. Relative order is
// preserved.
func Dedupe(existing, batch []*villages.Record) []*villages.Record {
	out, _ := dedupe(existing, batch)
	return out
}

// dedupe also reports how many of the surviving records came from batch.
func dedupe(existing, batch []*villages.Record) ([]*villages.Record, int) {
	out := make([]*villages.Record, 0, len(existing)+len(batch))
	seen := make(identitySet, len(existing)+len(batch))

	for _, r := range existing {
		if seen.add(r.Identity()) {
			out = append(out, r)
		}
	}
	kept := len(out)
	for _, r := range batch {
		if seen.add(r.Identity()) {
			out = append(out, r)
		}
	}
	return out, len(out) - kept
}

type identitySet map[villages.Identity]struct{}

// add records id and reports whether it was new.
func (s identitySet) add(id villages.Identity) bool {
	if _, ok := s[id]; ok {
		return false
	}
	s[id] = struct{}{}
	return true
}

// Ensure Merger implements villages.Merger at compile time.
var _ villages.Merger = (*Merger)(nil)

// Merger merges batches into a RecordService.
// Merges through the same Merger are serialized, so concurrent submissions
// never overwrite each other's writes. Separate processes sharing one store
// are not coordinated.
type Merger struct {
	Records villages.RecordService
	Policy  villages.MergePolicy

	mu sync.Mutex
}

// NewMerger creates a Merger writing to records with the given policy.
func NewMerger(records villages.RecordService, policy villages.MergePolicy) *Merger {
	return &Merger{Records: records, Policy: policy}
}

// Merge reads the store, deduplicates the whole history plus batch, and
// writes the result back. It returns the store contents after the merge and
// the number of records batch added.
func (m *Merger) Merge(ctx context.Context, batch []*villages.Record) ([]*villages.Record, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, err := m.Records.FindRecords(ctx)
	if err != nil {
		return nil, 0, storeError("failed to read records", err)
	}

	switch m.Policy {
	case "", villages.PolicyRebuild:
		return m.rebuildMerge(ctx, existing, batch)
	case villages.PolicyAppend:
		return m.appendMerge(ctx, existing, batch)
	default:
		return nil, 0, villages.Errorf(villages.EINVALID, "unknown merge policy %q", m.Policy)
	}
}

// rebuildMerge replaces the store with the deduplicated union.
func (m *Merger) rebuildMerge(ctx context.Context, existing, batch []*villages.Record) ([]*villages.Record, int, error) {
	merged, added := dedupe(existing, batch)

	// Nothing new and nothing to clean up: the store already holds merged.
	if added == 0 && len(merged) == len(existing) {
		return merged, 0, nil
	}

	if err := m.Records.ReplaceRecords(ctx, merged); err != nil {
		return nil, 0, storeError("failed to replace records", err)
	}
	return merged, added, nil
}

// appendMerge inserts only the batch records whose identity is not stored yet.
// Duplicates already in the store stay there.
func (m *Merger) appendMerge(ctx context.Context, existing, batch []*villages.Record) ([]*villages.Record, int, error) {
	seen := make(identitySet, len(existing)+len(batch))
	for _, r := range existing {
		seen.add(r.Identity())
	}

	var fresh []*villages.Record
	for _, r := range batch {
		if seen.add(r.Identity()) {
			fresh = append(fresh, r)
		}
	}

	if len(fresh) == 0 {
		return existing, 0, nil
	}

	if err := m.Records.InsertRecords(ctx, fresh); err != nil {
		return nil, 0, storeError("failed to insert records", err)
	}

	merged := make([]*villages.Record, 0, len(existing)+len(fresh))
	merged = append(merged, existing...)
	merged = append(merged, fresh...)
	return merged, len(fresh), nil
}

// Reset deletes every stored record.
func (m *Merger) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.Records.DeleteRecords(ctx); err != nil {
		return storeError("failed to delete records", err)
	}
	return nil
}

// storeError marks a storage failure as EUNAVAILABLE while keeping the
// underlying error in the chain. Application errors pass through unchanged.
func storeError(msg string, err error) error {
	if villages.ErrorCode(err) != villages.EINTERNAL {
		return err
	}
	return fmt.Errorf("%w: %w", villages.Errorf(villages.EUNAVAILABLE, "record store unavailable: %s", msg), err)
}
