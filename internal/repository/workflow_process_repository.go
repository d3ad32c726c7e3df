package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/case-service/internal/domain"
)

// WorkflowProcessRepository records external workflow instances per case.
type WorkflowProcessRepository interface {
	Create(ctx context.Context, p *domain.WorkflowProcess) error
	GetByTxnID(ctx context.Context, txnID string) (*domain.WorkflowProcess, error)
	MarkCompleted(ctx context.Context, txnID, updatedBy string, at time.Time) error
	DeleteAll(ctx context.Context) (int64, error)
}

type workflowProcessRepository struct {
	db DB
}

// NewWorkflowProcessRepository instantiates repository.
func NewWorkflowProcessRepository(db DB) WorkflowProcessRepository {
	return &workflowProcessRepository{db: db}
}

func (r *workflowProcessRepository) Create(ctx context.Context, p *domain.WorkflowProcess) error {
	const query = `
        INSERT INTO workflow_processes (instance_id, req_txn_id, request_id, description, status, created_by, updated_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		p.InstanceID,
		p.TxnID,
		p.CaseID,
		p.Description,
		p.Status,
		p.CreatedBy,
		p.UpdatedBy,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (r *workflowProcessRepository) GetByTxnID(ctx context.Context, txnID string) (*domain.WorkflowProcess, error) {
	const query = `
        SELECT instance_id, req_txn_id, request_id, description, status, completed_at, created_by, updated_by, created_at, updated_at
        FROM workflow_processes WHERE req_txn_id=$1`
	var p domain.WorkflowProcess
	err := r.db.QueryRow(ctx, query, txnID).Scan(
		&p.InstanceID,
		&p.TxnID,
		&p.CaseID,
		&p.Description,
		&p.Status,
		&p.CompletedAt,
		&p.CreatedBy,
		&p.UpdatedBy,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *workflowProcessRepository) MarkCompleted(ctx context.Context, txnID, updatedBy string, at time.Time) error {
	const query = `
        UPDATE workflow_processes SET status=$1, completed_at=$2, updated_by=$3, updated_at=NOW()
        WHERE req_txn_id=$4`
	cmd, err := r.db.Exec(ctx, query, domain.WorkflowStatusCompleted, at, updatedBy, txnID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *workflowProcessRepository) DeleteAll(ctx context.Context) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM workflow_processes`)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
