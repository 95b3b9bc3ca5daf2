package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fwojciec/villages"
)

// Compile-time interface verification.
var _ villages.RecordService = (*RecordService)(nil)

// RecordService implements villages.RecordService using SQLite.
type RecordService struct {
	db *DB
}

// NewRecordService creates a new RecordService.
func NewRecordService(db *DB) *RecordService {
	return &RecordService{db: db}
}

// FindRecords returns all records in insertion order.
func (s *RecordService) FindRecords(ctx context.Context) ([]*villages.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT district_id, district_value, taluk_id, taluk_value,
			hobli_id, hobli_value, village_id, village_value
		FROM records
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*villages.Record{}
	for rows.Next() {
		var r villages.Record
		if err := rows.Scan(&r.DistrictID, &r.DistrictValue, &r.TalukID, &r.TalukValue,
			&r.HobliID, &r.HobliValue, &r.VillageID, &r.VillageValue); err != nil {
			return nil, err
		}
		records = append(records, &r)
	}

	return records, rows.Err()
}

// InsertRecords appends records. A record whose identity is already stored
// is ignored, so the stored labels win.
func (s *RecordService) InsertRecords(ctx context.Context, records []*villages.Record) error {
	if err := validate(records); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insert(ctx, tx, records); err != nil {
		return err
	}
	return tx.Commit()
}

// ReplaceRecords deletes all records and inserts records in one
// transaction. Readers see the old contents until it commits.
func (s *RecordService) ReplaceRecords(ctx context.Context, records []*villages.Record) error {
	if err := validate(records); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM records"); err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}
	if err := insert(ctx, tx, records); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteRecords removes all records.
func (s *RecordService) DeleteRecords(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM records")
	return err
}

func validate(records []*villages.Record) error {
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func insert(ctx context.Context, tx *sql.Tx, records []*villages.Record) error {
	if len(records) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO records (district_id, district_value, taluk_id, taluk_value,
			hobli_id, hobli_value, village_id, village_value)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.DistrictID, r.DistrictValue, r.TalukID, r.TalukValue,
			r.HobliID, r.HobliValue, r.VillageID, r.VillageValue); err != nil {
			return fmt.Errorf("failed to insert record %s: %w", r.Identity().Key(), err)
		}
	}
	return nil
}
