package villages

import "context"

// MergePolicy selects how a merged result is written back to the store.
type MergePolicy string

// MergePolicy constants.
const (
	// PolicyRebuild replaces the whole store with the deduplicated union
	// of stored and new records.
	PolicyRebuild MergePolicy = "rebuild"

	// PolicyAppend only inserts new records whose identity is not stored
	// yet. Duplicates already present in the store are left in place.
	PolicyAppend MergePolicy = "append"
)

// ParseMergePolicy returns the policy named by s.
// An empty string selects PolicyRebuild.
func ParseMergePolicy(s string) (MergePolicy, error) {
	switch MergePolicy(s) {
	case "", PolicyRebuild:
		return PolicyRebuild, nil
	case PolicyAppend:
		return PolicyAppend, nil
	default:
		return "", Errorf(EINVALID, "unknown merge policy %q", s)
	}
}

// Submission is the outcome of one pasted page.
type Submission struct {
	// Villages is the batch extracted from the submitted page.
	Villages []*Record `json:"villages"`

	// Added is the number of records that were not stored before.
	Added int `json:"added"`

	// Total is the number of records in the store after the merge.
	Total int `json:"total"`
}

// Merger merges a batch of records into the store.
type Merger interface {
	// Merge deduplicates the batch against the entire stored history and
	// writes the result back. It returns the post-merge store contents and
	// the number of newly stored records.
	Merge(ctx context.Context, batch []*Record) (records []*Record, added int, err error)

	// Reset deletes every stored record.
	Reset(ctx context.Context) error
}

// Submitter extracts records from a page and merges them into the store.
type Submitter interface {
	Submit(ctx context.Context, html string) (*Submission, error)
}
