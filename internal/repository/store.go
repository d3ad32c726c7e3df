package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the subset of pgx operations repositories rely on; both
// *pgxpool.Pool and pgx.Tx satisfy it, so the same repository code runs
// inside and outside a transaction.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repos bundles all repositories bound to one executor.
type Repos struct {
	Cases       CaseRepository
	Tasks       TaskRepository
	Processes   WorkflowProcessRepository
	Comments    CommentRepository
	Attachments AttachmentRepository
	Users       UserRepository
	AuthMatrix  AuthMatrixRepository
	Lookup      LookupRepository
	Holidays    HolidayRepository
	Sequences   SequenceRepository
	Reports     ReportRepository
}

func newRepos(db DB) Repos {
	return Repos{
		Cases:       NewCaseRepository(db),
		Tasks:       NewTaskRepository(db),
		Processes:   NewWorkflowProcessRepository(db),
		Comments:    NewCommentRepository(db),
		Attachments: NewAttachmentRepository(db),
		Users:       NewUserRepository(db),
		AuthMatrix:  NewAuthMatrixRepository(db),
		Lookup:      NewLookupRepository(db),
		Holidays:    NewHolidayRepository(db),
		Sequences:   NewSequenceRepository(db),
		Reports:     NewReportRepository(db),
	}
}

// Store owns the pool-bound repositories and opens transactional scopes.
type Store struct {
	Repos
	pool *pgxpool.Pool
}

// NewStore binds repositories to the pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{Repos: newRepos(pool), pool: pool}
}

// InTx runs fn with repositories bound to a single transaction; the
// transaction commits when fn returns nil and rolls back otherwise.
// Row locks taken inside (sequence counters) are held until then.
func (s *Store) InTx(ctx context.Context, fn func(Repos) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(newRepos(tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
