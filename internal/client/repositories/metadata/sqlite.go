package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/dmitrijs2005/recipebook/internal/dbx"
)

const (
	selectValue = `SELECT value FROM metadata WHERE key = ?`
	upsertValue = `INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`
	deleteValue = `DELETE FROM metadata WHERE key = ?`
)

// isBusy reports whether err is a lock conflict with another connection to
// the same file. busy_timeout does not cover every such conflict: a reader
// upgrading to a writer gets SQLITE_BUSY at once.
var isBusy = func(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return true
	}
	return false
}

// lockBackoff is the retry schedule for lock conflicts.
var lockBackoff = func() retry.Backoff {
	return retry.WithMaxRetries(5, retry.WithCappedDuration(250*time.Millisecond,
		retry.NewExponential(10*time.Millisecond)))
}

// SQLiteRepository keeps metadata in the "metadata" table of the session
// database, which several client processes may share.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// Get returns the value stored under key, or ErrNotFound.
func (r *SQLiteRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.withRetry(ctx, func(ctx context.Context) error {
		return r.db.QueryRowContext(ctx, selectValue, key).Scan(&value)
	})
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("get %q: %w", key, ErrNotFound)
	case err != nil:
		return nil, fmt.Errorf("get %q: %w", key, err)
	case len(value) == 0:
		return nil, fmt.Errorf("get %q: %w", key, ErrNotFound)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (r *SQLiteRepository) Set(ctx context.Context, key string, value []byte) error {
	err := r.withRetry(ctx, func(ctx context.Context) error {
		_, err := r.db.ExecContext(ctx, upsertValue, key, value)
		return err
	})
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Delete removes key.
func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	err := r.withRetry(ctx, func(ctx context.Context) error {
		_, err := r.db.ExecContext(ctx, deleteValue, key)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// withRetry runs op, repeating it while it fails on a lock conflict. It gives
// up when the schedule runs out or ctx is done.
func (r *SQLiteRepository) withRetry(ctx context.Context, op func(context.Context) error) error {
	return retry.Do(ctx, lockBackoff(), func(ctx context.Context) error {
		err := op(ctx)
		if err != nil && isBusy(err) {
			return retry.RetryableError(err)
		}
		return err
	})
}
