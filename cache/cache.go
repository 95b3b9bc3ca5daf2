// Package cache provides an in-process read cache for the record store.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/villages"
	gocache "github.com/patrickmn/go-cache"
)

// DefaultTTL is how long a cached record list is served without re-reading.
const DefaultTTL = 30 * time.Second

const recordsKey = "records"

// Ensure RecordService implements villages.RecordService at compile time.
var _ villages.RecordService = (*RecordService)(nil)

// RecordService caches FindRecords of the wrapped store.
// Every write through it invalidates the cache once the write returns,
// whether or not it succeeded. A read that started before an invalidation
// is returned to its caller but never stored. Writes made by other
// processes show up after the TTL expires.
//
// The cache is for display reads only. Anything that writes back what it
// read, such as a merge, must read through Uncached.
type RecordService struct {
	next  villages.RecordService
	cache *gocache.Cache

	mu  sync.Mutex
	gen uint64 // bumped on every invalidation
}

// NewRecordService wraps next with a cache whose entries live for ttl.
func NewRecordService(next villages.RecordService, ttl time.Duration) *RecordService {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RecordService{
		next:  next,
		cache: gocache.New(ttl, 2*ttl),
	}
}

// FindRecords returns the cached list or reads it from the wrapped store.
func (s *RecordService) FindRecords(ctx context.Context) ([]*villages.Record, error) {
	s.mu.Lock()
	v, ok := s.cache.Get(recordsKey)
	gen := s.gen
	s.mu.Unlock()
	if ok {
		return clone(v.([]*villages.Record)), nil
	}

	records, err := s.next.FindRecords(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.gen == gen {
		s.cache.SetDefault(recordsKey, clone(records))
	}
	s.mu.Unlock()
	return records, nil
}

// InsertRecords delegates and invalidates the cache.
func (s *RecordService) InsertRecords(ctx context.Context, records []*villages.Record) error {
	defer s.invalidate()
	return s.next.InsertRecords(ctx, records)
}

// ReplaceRecords delegates and invalidates the cache.
func (s *RecordService) ReplaceRecords(ctx context.Context, records []*villages.Record) error {
	defer s.invalidate()
	return s.next.ReplaceRecords(ctx, records)
}

// DeleteRecords delegates and invalidates the cache.
func (s *RecordService) DeleteRecords(ctx context.Context) error {
	defer s.invalidate()
	return s.next.DeleteRecords(ctx)
}

// Uncached returns a view that always reads the wrapped store but still
// invalidates this cache on writes.
func (s *RecordService) Uncached() villages.RecordService {
	return &uncachedRecordService{RecordService: s}
}

func (s *RecordService) invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.cache.Delete(recordsKey)
}

type uncachedRecordService struct {
	*RecordService
}

func (s *uncachedRecordService) FindRecords(ctx context.Context) ([]*villages.Record, error) {
	return s.next.FindRecords(ctx)
}

// clone copies the slice so callers cannot reorder or grow the cached one.
func clone(records []*villages.Record) []*villages.Record {
	return append(make([]*villages.Record, 0, len(records)), records...)
}
