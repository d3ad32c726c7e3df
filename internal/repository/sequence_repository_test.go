package repository

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/case-service/internal/domain"
)

// seqTableDB models the id_sequences counter row with the locking
// contract the SQL relies on: SELECT ... FOR UPDATE takes the row lock
// and the lock is released when the counter is written back. Without
// that lock the read-increment-write section in Next would race.
type seqTableDB struct {
	mu           sync.Mutex
	exists       bool
	current      int
	beforeInsert func()
}

type seqRow struct {
	db  *seqTableDB
	err error
}

func (r seqRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*int) = r.db.current
	return nil
}

func (db *seqTableDB) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	if !strings.Contains(sql, "FOR UPDATE") {
		return seqRow{err: errors.New("unexpected query")}
	}
	db.mu.Lock()
	if !db.exists {
		// No row, no lock: concurrent first callers both reach INSERT.
		db.mu.Unlock()
		return seqRow{err: pgx.ErrNoRows}
	}
	// Lock held until the UPDATE in Exec, like the row lock in postgres.
	return seqRow{db: db}
}

func (db *seqTableDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	switch {
	case strings.Contains(sql, "INSERT"):
		db.mu.Lock()
		defer db.mu.Unlock()
		if db.beforeInsert != nil {
			db.beforeInsert()
		}
		if db.exists {
			return pgconn.CommandTag{}, &pgconn.PgError{Code: "23505", ConstraintName: "id_sequences_pkey"}
		}
		db.exists = true
		db.current = 1
		return pgconn.CommandTag{}, nil
	case strings.Contains(sql, "UPDATE"):
		db.current = args[0].(int)
		db.mu.Unlock()
		return pgconn.CommandTag{}, nil
	default:
		return pgconn.CommandTag{}, errors.New("unexpected statement")
	}
}

func (db *seqTableDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("unexpected query")
}

func TestNextSerialisesConcurrentMinters(t *testing.T) {
	db := &seqTableDB{exists: true}
	repo := NewSequenceRepository(db)

	const minters = 16
	results := make(chan int, minters)
	errs := make(chan error, minters)

	var wg sync.WaitGroup
	for i := 0; i < minters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seq, err := repo.Next(context.Background(), 2025, domain.RequestTypeTE, domain.SequenceIDRequest, "loadtest")
			if err != nil {
				errs <- err
				return
			}
			results <- seq
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	seen := make(map[int]bool, minters)
	for seq := range results {
		assert.False(t, seen[seq], "sequence %d minted twice", seq)
		seen[seq] = true
	}
	require.Len(t, seen, minters)
	// Gap-free: exactly 1..minters.
	for i := 1; i <= minters; i++ {
		assert.True(t, seen[i], "sequence %d missing", i)
	}
	assert.Equal(t, minters, db.current)
}

func TestNextCreatesCounterOnFirstUse(t *testing.T) {
	db := &seqTableDB{}
	repo := NewSequenceRepository(db)

	first, err := repo.Next(context.Background(), 2025, domain.RequestTypeTE, domain.SequenceIDDraft, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, first)

	second, err := repo.Next(context.Background(), 2025, domain.RequestTypeTE, domain.SequenceIDDraft, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, 2, second)
}

func TestNextFirstInsertRaceSurfacesUniqueViolation(t *testing.T) {
	db := &seqTableDB{}
	// The winner commits its row between this caller's empty SELECT and
	// its INSERT; the collision surfaces as a unique violation.
	db.beforeInsert = func() {
		db.exists = true
		db.current = 1
	}
	repo := NewSequenceRepository(db)

	_, err := repo.Next(context.Background(), 2025, domain.RequestTypeTE, domain.SequenceIDRequest, "bob@example.com")
	require.Error(t, err)

	var pgErr *pgconn.PgError
	require.ErrorAs(t, err, &pgErr)
	assert.Equal(t, "23505", pgErr.Code)
}
