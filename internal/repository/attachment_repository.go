package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/case-service/internal/domain"
)

// AttachmentRepository persists file references attached to cases.
type AttachmentRepository interface {
	Create(ctx context.Context, a *domain.Attachment) error
	GetByID(ctx context.Context, id string) (*domain.Attachment, error)
	ListByTxnID(ctx context.Context, txnID string) ([]domain.Attachment, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type attachmentRepository struct {
	db DB
}

// NewAttachmentRepository instantiates repository.
func NewAttachmentRepository(db DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

func (r *attachmentRepository) Create(ctx context.Context, a *domain.Attachment) error {
	const query = `
        INSERT INTO case_attachments (id, req_txn_id, file_name, mime_type, size_bytes, storage_key, created_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING created_at`
	return r.db.QueryRow(ctx, query,
		a.ID,
		a.TxnID,
		a.FileName,
		a.MimeType,
		a.SizeBytes,
		a.StorageKey,
		a.CreatedBy,
	).Scan(&a.CreatedAt)
}

func (r *attachmentRepository) GetByID(ctx context.Context, id string) (*domain.Attachment, error) {
	const query = `
        SELECT id, req_txn_id, file_name, mime_type, size_bytes, storage_key, created_by, created_at
        FROM case_attachments WHERE id=$1`
	return scanAttachment(r.db.QueryRow(ctx, query, id))
}

func (r *attachmentRepository) ListByTxnID(ctx context.Context, txnID string) ([]domain.Attachment, error) {
	const query = `
        SELECT id, req_txn_id, file_name, mime_type, size_bytes, storage_key, created_by, created_at
        FROM case_attachments WHERE req_txn_id=$1 ORDER BY created_at`
	rows, err := r.db.Query(ctx, query, txnID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attachments []domain.Attachment
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, err
		}
		attachments = append(attachments, *a)
	}
	return attachments, rows.Err()
}

func (r *attachmentRepository) DeleteAll(ctx context.Context) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM case_attachments`)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func scanAttachment(row pgx.Row) (*domain.Attachment, error) {
	var a domain.Attachment
	err := row.Scan(
		&a.ID,
		&a.TxnID,
		&a.FileName,
		&a.MimeType,
		&a.SizeBytes,
		&a.StorageKey,
		&a.CreatedBy,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
