// Package fs provides a JSON-file record store.
package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fwojciec/villages"
)

// DefaultFilename is the file the store writes when no path is configured.
const DefaultFilename = "extracted_villages.json"

// Ensure FileStore implements villages.RecordService at compile time.
var _ villages.RecordService = (*FileStore)(nil)

// FileStore keeps all records as one pretty-printed JSON array.
// Every write goes to a temporary file in the same directory which is then
// renamed over the target, so readers see either the old or the new file.
type FileStore struct {
	path string

	// mu serializes read-modify-write within this process.
	mu sync.Mutex
}

// NewFileStore creates a FileStore for the file at path.
// The file is created on the first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the file the store reads and writes.
func (s *FileStore) Path() string {
	return s.path
}

// Open verifies the parent directory exists and any existing file parses.
func (s *FileStore) Open() error {
	dir := filepath.Dir(s.path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("failed to open record file directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	_, err = s.read()
	return err
}

// PingContext reports whether the record file's directory is still there.
func (s *FileStore) PingContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("record file directory unavailable: %w", err)
	}
	return nil
}

// Close is a no-op; every write is flushed before it returns.
func (s *FileStore) Close() error {
	return nil
}

// FindRecords returns all records. A missing file is an empty store.
func (s *FileStore) FindRecords(ctx context.Context) ([]*villages.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.read()
}

// InsertRecords appends records to the file without deduplicating.
func (s *FileStore) InsertRecords(ctx context.Context, records []*villages.Record) error {
	if err := validate(records); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	existing, err := s.read()
	if err != nil {
		return err
	}
	return s.write(append(existing, records...))
}

// ReplaceRecords atomically replaces the file contents.
func (s *FileStore) ReplaceRecords(ctx context.Context, records []*villages.Record) error {
	if err := validate(records); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return s.write(records)
}

// DeleteRecords removes the file.
func (s *FileStore) DeleteRecords(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *FileStore) read() ([]*villages.Record, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []*villages.Record{}, nil
	}
	if err != nil {
		return nil, err
	}

	records := []*villages.Record{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.path, err)
	}
	return records, nil
}

func (s *FileStore) write(records []*villages.Record) error {
	if records == nil {
		records = []*villages.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}

func validate(records []*villages.Record) error {
	for _, r := range records {
		if err := r.Validate(); err != nil {
			return err
		}
	}
	return nil
}
