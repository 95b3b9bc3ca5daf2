package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/fwojciec/villages"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time interface verification.
var _ villages.RecordService = (*RecordService)(nil)

// recordDoc is the stored form of a record. Seq preserves insertion order.
type recordDoc struct {
	Seq           int64  `bson:"seq"`
	DistrictID    string `bson:"districtId"`
	DistrictValue string `bson:"districtValue"`
	TalukID       string `bson:"talukId"`
	TalukValue    string `bson:"talukValue"`
	HobliID       string `bson:"hobliId"`
	HobliValue    string `bson:"hobliValue"`
	VillageID     string `bson:"villageId"`
	VillageValue  string `bson:"villageValue"`
}

func newRecordDoc(seq int64, r *villages.Record) recordDoc {
	return recordDoc{
		Seq:           seq,
		DistrictID:    r.DistrictID,
		DistrictValue: r.DistrictValue,
		TalukID:       r.TalukID,
		TalukValue:    r.TalukValue,
		HobliID:       r.HobliID,
		HobliValue:    r.HobliValue,
		VillageID:     r.VillageID,
		VillageValue:  r.VillageValue,
	}
}

func (d *recordDoc) record() *villages.Record {
	return &villages.Record{
		DistrictID:    d.DistrictID,
		DistrictValue: d.DistrictValue,
		TalukID:       d.TalukID,
		TalukValue:    d.TalukValue,
		HobliID:       d.HobliID,
		HobliValue:    d.HobliValue,
		VillageID:     d.VillageID,
		VillageValue:  d.VillageValue,
	}
}

// RecordService implements villages.RecordService using MongoDB.
type RecordService struct {
	db *DB
}

// NewRecordService creates a new RecordService.
func NewRecordService(db *DB) *RecordService {
	return &RecordService{db: db}
}

// FindRecords returns all records in insertion order.
func (s *RecordService) FindRecords(ctx context.Context) ([]*villages.Record, error) {
	cursor, err := s.db.Collection(RecordsCollection).Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}).SetBatchSize(500))
	if err != nil {
		return nil, err
	}

	var docs []recordDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	records := make([]*villages.Record, 0, len(docs))
	for i := range docs {
		records = append(records, docs[i].record())
	}
	return records, nil
}

// InsertRecords appends records after the highest stored seq.
// Records whose identity is already stored are skipped by the unique index.
func (s *RecordService) InsertRecords(ctx context.Context, records []*villages.Record) error {
	if err := validate(records); err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}

	coll := s.db.Collection(RecordsCollection)
	next, err := nextSeq(ctx, coll)
	if err != nil {
		return err
	}

	_, err = coll.InsertMany(ctx, docs(next, records), options.InsertMany().SetOrdered(false))
	if err != nil && !onlyDuplicateKeys(err) {
		return err
	}
	return nil
}

// ReplaceRecords builds the new contents in a staging collection and renames
// it over the records collection, so readers never see a partial store.
func (s *RecordService) ReplaceRecords(ctx context.Context, records []*villages.Record) error {
	if err := validate(records); err != nil {
		return err
	}

	staging := s.db.Collection(stagingCollection)
	if err := staging.Drop(ctx); err != nil {
		return fmt.Errorf("failed to drop staging collection: %w", err)
	}
	if err := createIndexes(ctx, staging); err != nil {
		return fmt.Errorf("failed to index staging collection: %w", err)
	}
	if len(records) > 0 {
		if _, err := staging.InsertMany(ctx, docs(0, records), options.InsertMany().SetOrdered(false)); err != nil && !onlyDuplicateKeys(err) {
			return fmt.Errorf("failed to fill staging collection: %w", err)
		}
	}

	if err := s.db.renameCollection(ctx, stagingCollection, RecordsCollection); err != nil {
		return fmt.Errorf("failed to swap records collection: %w", err)
	}
	return nil
}

// DeleteRecords removes all records.
func (s *RecordService) DeleteRecords(ctx context.Context) error {
	_, err := s.db.Collection(RecordsCollection).DeleteMany(ctx, bson.M{})
	return err
}

func docs(start int64, records []*villages.Record) []any {
	out := make([]any, 0, len(records))
	for i, r := range records {
		out = append(out, newRecordDoc(start+int64(i), r))
	}
	return out
}

// nextSeq returns one past the highest stored seq, or 0 for an empty collection.
func nextSeq(ctx context.Context, coll *mongo.Collection) (int64, error) {
	var last recordDoc
	err := coll.FindOne(ctx, bson.M{}, options.FindOne().SetSort(bson.D{{Key: "seq", Value: -1}})).Decode(&last)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return last.Seq + 1, nil
}

// duplicateKeyCode is the server error code for a unique index violation.
const duplicateKeyCode = 11000

// onlyDuplicateKeys reports whether every write error in err is a
// duplicate-key violation.
func onlyDuplicateKeys(err error) bool {
	var bwe mongo.BulkWriteException
	if !errors.As(err, &bwe) {
		return false
	}
	if bwe.WriteConcernError != nil || len(bwe.WriteErrors) == 0 {
		return false
	}
	for _, we := range bwe.WriteErrors {
		if we.Code != duplicateKeyCode {
			return false
		}
	}
	return true
}

func validate(records []*villages.Record) error {
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	return nil
}
