package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/case-service/internal/domain"
)

// CaseRepository encapsulates case persistence.
type CaseRepository interface {
	Create(ctx context.Context, c *domain.CaseRequest) error
	Update(ctx context.Context, c *domain.CaseRequest) error
	GetByTxnID(ctx context.Context, txnID string) (*domain.CaseRequest, error)
	GetByCaseID(ctx context.Context, caseID string) (*domain.CaseRequest, error)
	ListByCreator(ctx context.Context, email string, limit, offset int) ([]domain.CaseRequest, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type caseRepository struct {
	db DB
}

// NewCaseRepository instantiates repository.
func NewCaseRepository(db DB) CaseRepository {
	return &caseRepository{db: db}
}

const caseColumns = `
        req_txn_id, request_type, draft_id, request_id, report_no, status,
        category_code, entity_code, requester_email, requester_empid, requester_name,
        requester_entity, req_for_email, req_for_name, processor, assigned_group,
        est_completion, clarified_at, escalated_at, resolved_at, closed_at,
        language, created_by, updated_by, created_at, updated_at`

func (r *caseRepository) Create(ctx context.Context, c *domain.CaseRequest) error {
	const query = `
        INSERT INTO case_requests (req_txn_id, request_type, draft_id, request_id, report_no, status,
            category_code, entity_code, requester_email, requester_empid, requester_name,
            requester_entity, req_for_email, req_for_name, processor, assigned_group,
            est_completion, clarified_at, escalated_at, resolved_at, closed_at,
            language, created_by, updated_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24)
        RETURNING created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		c.TxnID,
		c.RequestType,
		c.DraftID,
		c.CaseID,
		c.ReportNo,
		c.Status,
		c.CategoryCode,
		c.EntityCode,
		c.RequesterEmail,
		c.RequesterEmpID,
		c.RequesterName,
		c.RequesterEntity,
		c.ReqForEmail,
		c.ReqForName,
		c.Processor,
		c.AssignedGroup,
		c.EstCompletion,
		c.ClarifiedAt,
		c.EscalatedAt,
		c.ResolvedAt,
		c.ClosedAt,
		c.Language,
		c.CreatedBy,
		c.UpdatedBy,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (r *caseRepository) Update(ctx context.Context, c *domain.CaseRequest) error {
	const query = `
        UPDATE case_requests SET draft_id=$1, request_id=$2, report_no=$3, status=$4,
            category_code=$5, entity_code=$6, req_for_email=$7, req_for_name=$8,
            processor=$9, assigned_group=$10, est_completion=$11, clarified_at=$12,
            escalated_at=$13, resolved_at=$14, closed_at=$15, updated_by=$16, updated_at=NOW()
        WHERE req_txn_id=$17`
	cmd, err := r.db.Exec(ctx, query,
		c.DraftID,
		c.CaseID,
		c.ReportNo,
		c.Status,
		c.CategoryCode,
		c.EntityCode,
		c.ReqForEmail,
		c.ReqForName,
		c.Processor,
		c.AssignedGroup,
		c.EstCompletion,
		c.ClarifiedAt,
		c.EscalatedAt,
		c.ResolvedAt,
		c.ClosedAt,
		c.UpdatedBy,
		c.TxnID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *caseRepository) GetByTxnID(ctx context.Context, txnID string) (*domain.CaseRequest, error) {
	query := `SELECT` + caseColumns + ` FROM case_requests WHERE req_txn_id=$1`
	return scanCase(r.db.QueryRow(ctx, query, txnID))
}

func (r *caseRepository) GetByCaseID(ctx context.Context, caseID string) (*domain.CaseRequest, error) {
	query := `SELECT` + caseColumns + ` FROM case_requests WHERE request_id=$1 OR draft_id=$1`
	return scanCase(r.db.QueryRow(ctx, query, caseID))
}

func (r *caseRepository) ListByCreator(ctx context.Context, email string, limit, offset int) ([]domain.CaseRequest, error) {
	query := `SELECT` + caseColumns + ` FROM case_requests WHERE created_by=$1 ORDER BY updated_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.Query(ctx, query, email, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cases []domain.CaseRequest
	for rows.Next() {
		c, err := scanCaseRow(rows)
		if err != nil {
			return nil, err
		}
		cases = append(cases, *c)
	}
	return cases, rows.Err()
}

func (r *caseRepository) DeleteAll(ctx context.Context) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM case_requests`)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func scanCase(row pgx.Row) (*domain.CaseRequest, error) {
	return scanCaseRow(row)
}

func scanCaseRow(row pgx.Row) (*domain.CaseRequest, error) {
	var c domain.CaseRequest
	err := row.Scan(
		&c.TxnID,
		&c.RequestType,
		&c.DraftID,
		&c.CaseID,
		&c.ReportNo,
		&c.Status,
		&c.CategoryCode,
		&c.EntityCode,
		&c.RequesterEmail,
		&c.RequesterEmpID,
		&c.RequesterName,
		&c.RequesterEntity,
		&c.ReqForEmail,
		&c.ReqForName,
		&c.Processor,
		&c.AssignedGroup,
		&c.EstCompletion,
		&c.ClarifiedAt,
		&c.EscalatedAt,
		&c.ResolvedAt,
		&c.ClosedAt,
		&c.Language,
		&c.CreatedBy,
		&c.UpdatedBy,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
