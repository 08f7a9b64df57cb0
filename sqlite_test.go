package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// newTestDB creates an in-memory item store holding an items table.
func newTestDB(t *testing.T) *itemStore {
	t.Helper()

	store, err := openStore(context.Background(), ":memory:")
	require.NoError(t, err, "failed to create test database")

	_, err = store.Exec(`
CREATE TABLE items (
    id TEXT,
    name TEXT NOT NULL,
    start TEXT NOT NULL,
    "end" TEXT,
    team TEXT,
    progress INTEGER
)`)
	require.NoError(t, err, "failed to create items table")

	t.Cleanup(func() {
		store.Close()
	})

	return store
}

func TestItemStore_LoadItems(t *testing.T) {
	store := newTestDB(t)
	ctx := context.Background()

	_, err := store.Exec(`INSERT INTO items (id, name, start, "end", team, progress) VALUES
		('1', 'Design', '2024-01-01', '2024-01-10', 'web', 100),
		('2', 'Build', '2024-01-05', '2024-01-20', NULL, 40)`)
	require.NoError(t, err)

	items, err := store.LoadItems(ctx, "items", getDefaultConfig())
	require.NoError(t, err)
	require.Len(t, items, 2)

	require.Equal(t, "1", items[0].ID)
	require.Equal(t, "Design", items[0].Name)
	require.Equal(t, mustDate(t, "2024-01-01"), items[0].Start)
	require.Equal(t, mustDate(t, "2024-01-10"), items[0].End)
	require.Equal(t, "web", items[0].FieldString("team"))
	require.Equal(t, "100", items[0].FieldString("progress"))

	require.Equal(t, "", items[1].FieldString("team"))
}

func TestItemStore_LoadItems_NullIDAndEnd(t *testing.T) {
	store := newTestDB(t)

	_, err := store.Exec(`INSERT INTO items (name, start) VALUES ('Open ended', '2024-06-01')`)
	require.NoError(t, err)

	items, err := store.LoadItems(context.Background(), "items", getDefaultConfig())
	require.NoError(t, err)
	require.Len(t, items, 1)

	_, err = uuid.Parse(items[0].ID)
	require.NoError(t, err)
	require.True(t, items[0].End.IsZero())
}

func TestItemStore_LoadItems_Errors(t *testing.T) {
	store := newTestDB(t)
	ctx := context.Background()

	_, err := store.LoadItems(ctx, "items; DROP TABLE items", getDefaultConfig())
	require.ErrorIs(t, err, errInvalidTable)

	_, err = store.LoadItems(ctx, "missing", getDefaultConfig())
	require.ErrorContains(t, err, "failed to query missing")

	cfg := getDefaultConfig()
	cfg.Columns.Start = "begins"
	_, err = store.LoadItems(ctx, "items", cfg)
	require.ErrorContains(t, err, "start column 'begins' not found")
}

func TestOpenReadOnly_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.db")

	_, err := openReadOnly(context.Background(), path)
	require.ErrorIs(t, err, errDatabaseNotFound)

	_, err = os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist, "no file may be created")
}

func TestOpenReadOnly_RejectsWrites(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "plan.db")

	rw, err := openStore(ctx, path)
	require.NoError(t, err)
	_, err = rw.Exec(`CREATE TABLE items (id TEXT, start TEXT, "end" TEXT)`)
	require.NoError(t, err)
	_, err = rw.Exec(`INSERT INTO items VALUES ('1', '2024-01-01', '2024-01-02')`)
	require.NoError(t, err)
	require.NoError(t, rw.Close())

	ro, err := openReadOnly(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { ro.Close() })

	items, err := ro.LoadItems(ctx, "items", getDefaultConfig())
	require.NoError(t, err)
	require.Len(t, items, 1)

	_, err = ro.Exec(`INSERT INTO items VALUES ('2', '2024-02-01', '2024-02-02')`)
	require.Error(t, err)
}
