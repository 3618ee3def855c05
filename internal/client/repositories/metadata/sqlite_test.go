package metadata

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sethvargo/go-retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func newSQLiteRepo(t *testing.T) (*SQLiteRepository, *sql.DB) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE metadata (key TEXT PRIMARY KEY, value BLOB NOT NULL)`)
	require.NoError(t, err)
	return NewSQLiteRepository(db), db
}

// fastRetries swaps the lock schedule for one that does not sleep and treats
// errLocked as a lock conflict.
func fastRetries(t *testing.T, attempts uint64) {
	t.Helper()
	prevBusy, prevBackoff := isBusy, lockBackoff
	t.Cleanup(func() { isBusy, lockBackoff = prevBusy, prevBackoff })

	isBusy = func(err error) bool { return errors.Is(err, errLocked) }
	lockBackoff = func() retry.Backoff {
		return retry.WithMaxRetries(attempts, retry.NewConstant(time.Millisecond))
	}
}

var errLocked = errors.New("database is locked (5) (SQLITE_BUSY)")

func TestSQLiteRepository_TokenLifecycle(t *testing.T) {
	r, _ := newSQLiteRepo(t)
	ctx := context.Background()

	_, err := r.Get(ctx, "token")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, r.Set(ctx, "token", []byte("first")))
	require.NoError(t, r.Set(ctx, "token", []byte("second")))

	v, err := r.Get(ctx, "token")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), v)

	require.NoError(t, r.Delete(ctx, "token"))
	require.NoError(t, r.Delete(ctx, "token"), "deleting an absent key")

	_, err = r.Get(ctx, "token")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteRepository_ClosedDatabase(t *testing.T) {
	r, db := newSQLiteRepo(t)
	ctx := context.Background()
	require.NoError(t, db.Close())

	_, err := r.Get(ctx, "token")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), `get "token"`)

	assert.ErrorContains(t, r.Set(ctx, "token", []byte("v")), `set "token"`)
	assert.ErrorContains(t, r.Delete(ctx, "token"), `delete "token"`)
}

func TestSQLiteRepository_RetriesLockConflicts(t *testing.T) {
	fastRetries(t, 3)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	r := NewSQLiteRepository(db)

	mock.ExpectExec("INSERT INTO metadata").WithArgs("token", []byte("T")).WillReturnError(errLocked)
	mock.ExpectExec("INSERT INTO metadata").WithArgs("token", []byte("T")).WillReturnError(errLocked)
	mock.ExpectExec("INSERT INTO metadata").WithArgs("token", []byte("T")).WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, r.Set(context.Background(), "token", []byte("T")))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteRepository_GivesUpOnPersistentLock(t *testing.T) {
	fastRetries(t, 2)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	r := NewSQLiteRepository(db)

	for range 3 {
		mock.ExpectExec("DELETE FROM metadata").WithArgs("token").WillReturnError(errLocked)
	}

	err = r.Delete(context.Background(), "token")
	require.ErrorIs(t, err, errLocked)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteRepository_OtherErrorsAreNotRetried(t *testing.T) {
	fastRetries(t, 5)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	r := NewSQLiteRepository(db)

	mock.ExpectQuery("SELECT value FROM metadata").WithArgs("token").
		WillReturnError(errors.New("disk I/O error"))

	_, err = r.Get(context.Background(), "token")
	require.ErrorContains(t, err, "disk I/O error")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteRepository_RetryStopsWithContext(t *testing.T) {
	fastRetries(t, 1000)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	r := NewSQLiteRepository(db)

	for range 1000 {
		mock.ExpectExec("INSERT INTO metadata").WillReturnError(errLocked)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err = r.Set(ctx, "token", []byte("T"))
	require.Error(t, err)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestIsBusy_IgnoresForeignErrors(t *testing.T) {
	assert.False(t, isBusy(errors.New("database is locked")))
	assert.False(t, isBusy(sql.ErrNoRows))
}
