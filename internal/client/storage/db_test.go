package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/recipebook/internal/client/repositories/metadata"
)

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`, name).Scan(&n)
	require.NoError(t, err, "tableExists query failed")
	return n > 0
}

func TestInitDatabase_CreatesMetadataTable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "app.db")

	db, err := InitDatabase(ctx, DSN(path))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.PingContext(ctx))
	require.True(t, tableExists(t, db, "metadata"))
	require.True(t, tableExists(t, db, "goose_db_version"))
	require.FileExists(t, path)
}

func TestRunMigrations_IsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db, err := sql.Open("sqlite", DSN(filepath.Join(t.TempDir(), "app.db")))
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, RunMigrations(ctx, db))
	require.NoError(t, RunMigrations(ctx, db), "second run must be a no-op")
}

func TestInitDatabase_TwoHandlesShareState(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "shared.db")

	db1, err := InitDatabase(ctx, DSN(path))
	require.NoError(t, err)
	defer db1.Close()
	db2, err := InitDatabase(ctx, DSN(path))
	require.NoError(t, err)
	defer db2.Close()

	require.NoError(t, metadata.NewSQLiteRepository(db1).Set(ctx, "token", []byte("T")))

	v, err := metadata.NewSQLiteRepository(db2).Get(ctx, "token")
	require.NoError(t, err)
	require.Equal(t, []byte("T"), v)
}

func TestInitDatabase_BadPath(t *testing.T) {
	t.Parallel()

	_, err := InitDatabase(context.Background(), DSN(filepath.Join(t.TempDir(), "missing", "dir", "x.db")))
	require.Error(t, err)
}
