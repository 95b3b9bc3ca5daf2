package villages

import (
	"context"
	"strings"
)

// SentinelVillageID is the value of the "Select Village" placeholder option.
// Options carrying it never become records.
const SentinelVillageID = "0"

// Record is one village option captured together with the district, taluk
// and hobli that were selected when the page was saved.
type Record struct {
	DistrictID    string `json:"districtId"`
	DistrictValue string `json:"districtValue"`
	TalukID       string `json:"talukId"`
	TalukValue    string `json:"talukValue"`
	HobliID       string `json:"hobliId"`
	HobliValue    string `json:"hobliValue"`
	VillageID     string `json:"villageId"`
	VillageValue  string `json:"villageValue"`
}

// Identity returns the tuple that uniquely identifies the record.
// Labels are not part of it.
func (r *Record) Identity() Identity {
	return Identity{
		DistrictID: r.DistrictID,
		TalukID:    r.TalukID,
		HobliID:    r.HobliID,
		VillageID:  r.VillageID,
	}
}

// Validate returns an error if the record is the placeholder option.
// Any other village code, including an empty one, is a real option.
func (r *Record) Validate() error {
	if r.VillageID == SentinelVillageID {
		return Errorf(EINVALID, "record village ID must not be the placeholder %q", SentinelVillageID)
	}
	return nil
}

// Identity is the ordered (district, taluk, hobli, village) code tuple.
type Identity struct {
	DistrictID string
	TalukID    string
	HobliID    string
	VillageID  string
}

// Key returns the identity as a single string, codes joined with "-".
func (id Identity) Key() string {
	return strings.Join([]string{id.DistrictID, id.TalukID, id.HobliID, id.VillageID}, "-")
}

// RecordService represents the persistent record store.
// Implementations provide no locking across calls; callers that
// read-modify-write must serialize themselves.
type RecordService interface {
	// FindRecords returns every stored record in insertion order.
	// Returns an empty slice if nothing has been stored yet.
	FindRecords(ctx context.Context) ([]*Record, error)

	// InsertRecords appends records to the store.
	InsertRecords(ctx context.Context, records []*Record) error

	// ReplaceRecords atomically replaces the entire store contents.
	// Readers observe either the old or the new contents, never an empty store.
	ReplaceRecords(ctx context.Context, records []*Record) error

	// DeleteRecords removes all records.
	DeleteRecords(ctx context.Context) error
}
