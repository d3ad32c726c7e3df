package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/case-service/internal/domain"
)

// CommentRepository persists enriched case comments. Comments are
// immutable once written; there is no update path.
type CommentRepository interface {
	Create(ctx context.Context, c *domain.Comment) error
	ListByTxnID(ctx context.Context, txnID string) ([]domain.Comment, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type commentRepository struct {
	db DB
}

// NewCommentRepository instantiates repository.
func NewCommentRepository(db DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, c *domain.Comment) error {
	const query = `
        INSERT INTO case_comments (id, req_txn_id, request_id, body, language, created_by, created_by_mask,
            user_type, comment_type, event, event_status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING created_at`
	return r.db.QueryRow(ctx, query,
		c.ID,
		c.TxnID,
		c.CaseID,
		c.Body,
		c.Language,
		c.CreatedBy,
		c.CreatedByMask,
		c.Meta.UserType,
		c.Meta.CommentType,
		c.Meta.Event,
		c.Meta.EventStatus,
	).Scan(&c.CreatedAt)
}

func (r *commentRepository) ListByTxnID(ctx context.Context, txnID string) ([]domain.Comment, error) {
	const query = `
        SELECT id, req_txn_id, request_id, body, language, created_by, created_by_mask,
            user_type, comment_type, event, event_status, created_at
        FROM case_comments WHERE req_txn_id=$1 ORDER BY created_at`
	rows, err := r.db.Query(ctx, query, txnID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, *c)
	}
	return comments, rows.Err()
}

func (r *commentRepository) DeleteAll(ctx context.Context) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM case_comments`)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func scanComment(row pgx.Row) (*domain.Comment, error) {
	var c domain.Comment
	err := row.Scan(
		&c.ID,
		&c.TxnID,
		&c.CaseID,
		&c.Body,
		&c.Language,
		&c.CreatedBy,
		&c.CreatedByMask,
		&c.Meta.UserType,
		&c.Meta.CommentType,
		&c.Meta.Event,
		&c.Meta.EventStatus,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
