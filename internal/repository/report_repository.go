package repository

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
)

// ReportRow is one row of the flattened case report view.
type ReportRow struct {
	TxnID          string
	DraftID        *string
	CaseID         *string
	ReportNo       *string
	Status         string
	CategoryCode   string
	CategoryDesc   *string
	EntityCode     string
	EntityDesc     *string
	CreatedBy      string
	CreatedByEmpID string
	CreatedByName  string
	ReqForEmail    string
	ReqForName     string
	Processor      *string
	ProcessorName  *string
	TaskProcessor  *string
	AssignedGroup  *string
	EstCompletion  *time.Time
	ClarifiedAt    *time.Time
	EscalatedAt    *time.Time
	ResolvedAt     *time.Time
	ClosedAt       *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

var reportColumns = []string{
	"req_txn_id",
	"draft_id",
	"request_id",
	"report_no",
	"status",
	"category_code",
	"category_desc",
	"entity_code",
	"entity_desc",
	"created_by",
	"created_by_empid",
	"created_by_name",
	"req_for_email",
	"req_for_name",
	"processor",
	"processor_name",
	"task_processor",
	"assigned_group",
	"est_completion",
	"clarified_at",
	"escalated_at",
	"resolved_at",
	"closed_at",
	"created_at",
	"updated_at",
}

// ReportRepository reads the case report view through caller-scoped
// predicates built by the reporting package.
type ReportRepository interface {
	List(ctx context.Context, predicate squirrel.Sqlizer) ([]ReportRow, error)
}

type reportRepository struct {
	db DB
}

// NewReportRepository instantiates repository.
func NewReportRepository(db DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) List(ctx context.Context, predicate squirrel.Sqlizer) ([]ReportRow, error) {
	builder := squirrel.StatementBuilder.
		PlaceholderFormat(squirrel.Dollar).
		Select(reportColumns...).
		From("case_report_view").
		OrderBy("updated_at DESC")
	if predicate != nil {
		builder = builder.Where(predicate)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var report []ReportRow
	for rows.Next() {
		var row ReportRow
		if err := rows.Scan(
			&row.TxnID,
			&row.DraftID,
			&row.CaseID,
			&row.ReportNo,
			&row.Status,
			&row.CategoryCode,
			&row.CategoryDesc,
			&row.EntityCode,
			&row.EntityDesc,
			&row.CreatedBy,
			&row.CreatedByEmpID,
			&row.CreatedByName,
			&row.ReqForEmail,
			&row.ReqForName,
			&row.Processor,
			&row.ProcessorName,
			&row.TaskProcessor,
			&row.AssignedGroup,
			&row.EstCompletion,
			&row.ClarifiedAt,
			&row.EscalatedAt,
			&row.ResolvedAt,
			&row.ClosedAt,
			&row.CreatedAt,
			&row.UpdatedAt,
		); err != nil {
			return nil, err
		}
		report = append(report, row)
	}
	return report, rows.Err()
}
