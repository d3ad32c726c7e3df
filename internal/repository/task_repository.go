package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/case-service/internal/domain"
)

// TaskRepository persists workflow task instances bound to cases. Rows
// are append-only apart from completion updates; they form the audit
// trail of who decided what.
type TaskRepository interface {
	Create(ctx context.Context, t *domain.TaskInstance) error
	Update(ctx context.Context, t *domain.TaskInstance) error
	GetByInstanceID(ctx context.Context, instanceID string) (*domain.TaskInstance, error)
	ListByTxnID(ctx context.Context, txnID string) ([]domain.TaskInstance, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type taskRepository struct {
	db DB
}

// NewTaskRepository instantiates repository.
func NewTaskRepository(db DB) TaskRepository {
	return &taskRepository{db: db}
}

const taskColumns = `
        instance_id, req_txn_id, task_type, status, decision, processor,
        completed_at, created_by, updated_by, created_at, updated_at`

func (r *taskRepository) Create(ctx context.Context, t *domain.TaskInstance) error {
	const query = `
        INSERT INTO case_tasks (instance_id, req_txn_id, task_type, status, decision, processor, completed_at, created_by, updated_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		t.InstanceID,
		t.TxnID,
		t.TaskType,
		t.Status,
		t.Decision,
		t.Processor,
		t.CompletedAt,
		t.CreatedBy,
		t.UpdatedBy,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
}

func (r *taskRepository) Update(ctx context.Context, t *domain.TaskInstance) error {
	const query = `
        UPDATE case_tasks SET status=$1, decision=$2, processor=$3, completed_at=$4, updated_by=$5, updated_at=NOW()
        WHERE instance_id=$6`
	cmd, err := r.db.Exec(ctx, query,
		t.Status,
		t.Decision,
		t.Processor,
		t.CompletedAt,
		t.UpdatedBy,
		t.InstanceID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *taskRepository) GetByInstanceID(ctx context.Context, instanceID string) (*domain.TaskInstance, error) {
	query := `SELECT` + taskColumns + ` FROM case_tasks WHERE instance_id=$1`
	return scanTask(r.db.QueryRow(ctx, query, instanceID))
}

func (r *taskRepository) ListByTxnID(ctx context.Context, txnID string) ([]domain.TaskInstance, error) {
	query := `SELECT` + taskColumns + ` FROM case_tasks WHERE req_txn_id=$1 ORDER BY created_at`
	rows, err := r.db.Query(ctx, query, txnID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.TaskInstance
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) DeleteAll(ctx context.Context) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM case_tasks`)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func scanTask(row pgx.Row) (*domain.TaskInstance, error) {
	var t domain.TaskInstance
	err := row.Scan(
		&t.InstanceID,
		&t.TxnID,
		&t.TaskType,
		&t.Status,
		&t.Decision,
		&t.Processor,
		&t.CompletedAt,
		&t.CreatedBy,
		&t.UpdatedBy,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
