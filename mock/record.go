package mock

import (
	"context"

	"github.com/fwojciec/villages"
)

var _ villages.RecordService = (*RecordService)(nil)

// RecordService is a mock implementation of villages.RecordService.
type RecordService struct {
	FindRecordsFn    func(ctx context.Context) ([]*villages.Record, error)
	InsertRecordsFn  func(ctx context.Context, records []*villages.Record) error
	ReplaceRecordsFn func(ctx context.Context, records []*villages.Record) error
	DeleteRecordsFn  func(ctx context.Context) error
}

func (s *RecordService) FindRecords(ctx context.Context) ([]*villages.Record, error) {
	return s.FindRecordsFn(ctx)
}

func (s *RecordService) InsertRecords(ctx context.Context, records []*villages.Record) error {
	return s.InsertRecordsFn(ctx, records)
}

func (s *RecordService) ReplaceRecords(ctx context.Context, records []*villages.Record) error {
	return s.ReplaceRecordsFn(ctx, records)
}

func (s *RecordService) DeleteRecords(ctx context.Context) error {
	return s.DeleteRecordsFn(ctx)
}
