package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/villages"
	"github.com/fwojciec/villages/mock"
	locslog "github.com/fwojciec/villages/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func debugLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	t.Run("text logger hides debug unless verbose", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		locslog.NewLogger(&buf, "text", false).Debug("hidden")
		locslog.NewLogger(&buf, "text", true).Debug("shown")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "msg=shown")
	})

	t.Run("json format emits JSON", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		locslog.NewLogger(&buf, "json", false).Info("hello", "count", 2)

		assert.Contains(t, buf.String(), `"msg":"hello"`)
		assert.Contains(t, buf.String(), `"count":2`)
	})
}

func TestLoggingRecordService(t *testing.T) {
	t.Parallel()

	t.Run("logs find with count and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.RecordService{
			FindRecordsFn: func(_ context.Context) ([]*villages.Record, error) {
				return []*villages.Record{{VillageID: "10"}, {VillageID: "11"}}, nil
			},
		}

		svc := locslog.NewLoggingRecordService(inner, debugLogger(&buf))
		records, err := svc.FindRecords(context.Background())

		require.NoError(t, err)
		assert.Len(t, records, 2)
		output := buf.String()
		assert.Contains(t, output, "find records")
		assert.Contains(t, output, "count=2")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs write errors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.RecordService{
			ReplaceRecordsFn: func(_ context.Context, _ []*villages.Record) error {
				return errors.New("disk full")
			},
		}

		svc := locslog.NewLoggingRecordService(inner, debugLogger(&buf))
		err := svc.ReplaceRecords(context.Background(), []*villages.Record{{VillageID: "10"}})

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "replace records")
		assert.Contains(t, output, "count=1")
		assert.Contains(t, output, "disk full")
	})

	t.Run("logs insert and delete", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.RecordService{
			InsertRecordsFn: func(_ context.Context, _ []*villages.Record) error { return nil },
			DeleteRecordsFn: func(_ context.Context) error { return nil },
		}

		svc := locslog.NewLoggingRecordService(inner, debugLogger(&buf))
		require.NoError(t, svc.InsertRecords(context.Background(), nil))
		require.NoError(t, svc.DeleteRecords(context.Background()))

		assert.Contains(t, buf.String(), "insert records")
		assert.Contains(t, buf.String(), "delete records")
	})
}

func TestLoggingExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("logs count and selection context", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Extractor{
			ExtractFn: func(_ string) ([]*villages.Record, error) {
				return []*villages.Record{{DistrictValue: "Bengaluru", TalukValue: "Anekal", HobliValue: "X", VillageID: "10"}}, nil
			},
		}

		records, err := locslog.NewLoggingExtractor(inner, debugLogger(&buf)).Extract("<html></html>")

		require.NoError(t, err)
		assert.Len(t, records, 1)
		output := buf.String()
		assert.Contains(t, output, "level=DEBUG")
		assert.Contains(t, output, "count=1")
		assert.Contains(t, output, "bytes=13")
		assert.Contains(t, output, "district=Bengaluru")
	})

	t.Run("warns when nothing was extracted", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Extractor{
			ExtractFn: func(_ string) ([]*villages.Record, error) {
				return []*villages.Record{}, nil
			},
		}

		_, err := locslog.NewLoggingExtractor(inner, debugLogger(&buf)).Extract("<p>wrong page</p>")

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "level=WARN")
		assert.Contains(t, buf.String(), "count=0")
	})
}

func TestLoggingSubmitter_Submit(t *testing.T) {
	t.Parallel()

	t.Run("logs counts on success", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Submitter{
			SubmitFn: func(_ context.Context, _ string) (*villages.Submission, error) {
				return &villages.Submission{Villages: []*villages.Record{{VillageID: "10"}}, Added: 1, Total: 5}, nil
			},
		}

		sub, err := locslog.NewLoggingSubmitter(inner, debugLogger(&buf)).Submit(context.Background(), "<html>")

		require.NoError(t, err)
		assert.Equal(t, 5, sub.Total)
		output := buf.String()
		assert.Contains(t, output, "level=INFO")
		assert.Contains(t, output, "extracted=1")
		assert.Contains(t, output, "added=1")
		assert.Contains(t, output, "total=5")
	})

	t.Run("logs error code on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Submitter{
			SubmitFn: func(_ context.Context, _ string) (*villages.Submission, error) {
				return nil, villages.Errorf(villages.EUNAVAILABLE, "record store unavailable")
			},
		}

		_, err := locslog.NewLoggingSubmitter(inner, debugLogger(&buf)).Submit(context.Background(), "<html>")

		require.Error(t, err)
		output := buf.String()
		assert.Contains(t, output, "level=ERROR")
		assert.Contains(t, output, "code=unavailable")
	})
}

func TestLoggingFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("logs fetch with bytes and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (string, error) {
				return "<html>content</html>", nil
			},
		}

		fetcher := locslog.NewLoggingFetcher(inner, debugLogger(&buf))
		html, err := fetcher.Fetch(context.Background(), "https://example.com/page")

		require.NoError(t, err)
		assert.Equal(t, "<html>content</html>", html)
		output := buf.String()
		assert.Contains(t, output, "url=https://example.com/page")
		assert.Contains(t, output, "bytes=20")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs errors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		inner := &mock.Fetcher{
			FetchFn: func(_ context.Context, _ string) (string, error) {
				return "", errors.New("connection refused")
			},
		}

		_, err := locslog.NewLoggingFetcher(inner, debugLogger(&buf)).Fetch(context.Background(), "https://example.com")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "connection refused")
	})
}
