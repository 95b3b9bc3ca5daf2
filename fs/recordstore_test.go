package fs_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/villages"
	"github.com/fwojciec/villages/fs"
	"github.com/fwojciec/villages/merge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Story: JSON File Record Store
// Records live in one JSON array that is replaced atomically on every write.

func rec(village, label string) *villages.Record {
	return &villages.Record{
		DistrictID: "1", DistrictValue: "Bengaluru",
		TalukID: "2", TalukValue: "Anekal",
		HobliID: "3", HobliValue: "X",
		VillageID: village, VillageValue: label,
	}
}

func TestFileStore_MissingFileIsEmptyStore(t *testing.T) {
	t.Parallel()

	// Given a store whose file was never written
	store := fs.NewFileStore(filepath.Join(t.TempDir(), fs.DefaultFilename))

	// When I read all records
	records, err := store.FindRecords(context.Background())

	// Then I get an empty, non-nil slice
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestFileStore_WritesIndentedCamelCaseJSON(t *testing.T) {
	t.Parallel()

	// Given an empty store
	path := filepath.Join(t.TempDir(), fs.DefaultFilename)
	store := fs.NewFileStore(path)

	// When I insert a record
	require.NoError(t, store.InsertRecords(context.Background(), []*villages.Record{rec("10", "Alpha")}))

	// Then the file holds a two-space indented array with camelCase keys
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `[
  {
    "districtId": "1",
    "districtValue": "Bengaluru",
    "talukId": "2",
    "talukValue": "Anekal",
    "hobliId": "3",
    "hobliValue": "X",
    "villageId": "10",
    "villageValue": "Alpha"
  }
]`, string(data))
}

func TestFileStore_ReadsExistingFile(t *testing.T) {
	t.Parallel()

	// Given a file written by an earlier version of the tool
	path := filepath.Join(t.TempDir(), fs.DefaultFilename)
	data, err := json.Marshal([]*villages.Record{rec("10", "Alpha"), rec("11", "Beta")})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))

	// When I open the store and read
	store := fs.NewFileStore(path)
	require.NoError(t, store.Open())
	records, err := store.FindRecords(context.Background())

	// Then both records come back in file order
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Alpha", records[0].VillageValue)
	assert.Equal(t, "Beta", records[1].VillageValue)
}

func TestFileStore_InsertAppends(t *testing.T) {
	t.Parallel()

	store := fs.NewFileStore(filepath.Join(t.TempDir(), fs.DefaultFilename))
	ctx := context.Background()

	require.NoError(t, store.InsertRecords(ctx, []*villages.Record{rec("10", "Alpha")}))
	require.NoError(t, store.InsertRecords(ctx, []*villages.Record{rec("11", "Beta")}))

	records, err := store.FindRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Beta", records[1].VillageValue)
}

func TestFileStore_ReplaceLeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	// Given a store with records
	dir := t.TempDir()
	store := fs.NewFileStore(filepath.Join(dir, fs.DefaultFilename))
	ctx := context.Background()
	require.NoError(t, store.InsertRecords(ctx, []*villages.Record{rec("10", "Alpha"), rec("11", "Beta")}))

	// When I replace its contents
	require.NoError(t, store.ReplaceRecords(ctx, []*villages.Record{rec("12", "Gamma")}))

	// Then only the new contents remain
	records, err := store.FindRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Gamma", records[0].VillageValue)

	// And no temporary files are left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, fs.DefaultFilename, entries[0].Name())
}

func TestFileStore_RejectedReplaceKeepsOldFile(t *testing.T) {
	t.Parallel()

	store := fs.NewFileStore(filepath.Join(t.TempDir(), fs.DefaultFilename))
	ctx := context.Background()
	require.NoError(t, store.InsertRecords(ctx, []*villages.Record{rec("10", "Alpha")}))

	err := store.ReplaceRecords(ctx, []*villages.Record{rec("0", "Select Village")})
	require.Error(t, err)
	assert.Equal(t, villages.EINVALID, villages.ErrorCode(err))

	records, err := store.FindRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Alpha", records[0].VillageValue)
}

func TestFileStore_DeleteRemovesFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), fs.DefaultFilename)
	store := fs.NewFileStore(path)
	ctx := context.Background()
	require.NoError(t, store.InsertRecords(ctx, []*villages.Record{rec("10", "Alpha")}))

	require.NoError(t, store.DeleteRecords(ctx))
	require.NoError(t, store.DeleteRecords(ctx), "deleting an empty store is not an error")

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileStore_OpenFailsOnCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), fs.DefaultFilename)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	err := fs.NewFileStore(path).Open()

	require.Error(t, err)
}

func TestFileStore_OpenFailsOnMissingDirectory(t *testing.T) {
	t.Parallel()

	err := fs.NewFileStore(filepath.Join(t.TempDir(), "missing", fs.DefaultFilename)).Open()

	require.Error(t, err)
}

func TestFileStore_RebuildMergeDeduplicatesLegacyFile(t *testing.T) {
	t.Parallel()

	// Given a legacy file that accumulated duplicates
	path := filepath.Join(t.TempDir(), fs.DefaultFilename)
	data, err := json.Marshal([]*villages.Record{rec("10", "Alpha"), rec("10", "Alpha"), rec("11", "Beta")})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))
	store := fs.NewFileStore(path)

	// When a rebuild merge runs with a new batch
	_, added, err := merge.NewMerger(store, villages.PolicyRebuild).Merge(context.Background(), []*villages.Record{rec("12", "Gamma")})

	// Then the file holds each identity once
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	records, err := store.FindRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Gamma", records[2].VillageValue)
}

func TestFileStore_RebuildMergeKeepsEmptyVillageValue(t *testing.T) {
	t.Parallel()

	// Given a legacy file holding an option with an empty value
	path := filepath.Join(t.TempDir(), fs.DefaultFilename)
	data, err := json.Marshal([]*villages.Record{rec("", "Unnamed"), rec("11", "Beta")})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0644))
	store := fs.NewFileStore(path)

	// When a rebuild merge runs with a new batch
	_, added, err := merge.NewMerger(store, villages.PolicyRebuild).Merge(context.Background(), []*villages.Record{rec("12", "Gamma")})

	// Then the file is rewritten with every record
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	records, err := store.FindRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "", records[0].VillageID)
}

func TestFileStore_PingContext(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := fs.NewFileStore(filepath.Join(dir, "sub", fs.DefaultFilename))

	require.Error(t, store.PingContext(context.Background()), "directory does not exist yet")

	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))
	assert.NoError(t, store.PingContext(context.Background()))
}
