package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/case-service/internal/domain"
)

// LookupRepository serves language-scoped reference data (service
// categories, entities).
type LookupRepository interface {
	Insert(ctx context.Context, entries []domain.LookupEntry) error
	Get(ctx context.Context, requestType, object, code, language string) (*domain.LookupEntry, error)
	ListByObject(ctx context.Context, requestType, object, language string) ([]domain.LookupEntry, error)
	DeleteByObject(ctx context.Context, requestType, object string) (int64, error)
}

type lookupRepository struct {
	db DB
}

// NewLookupRepository instantiates repository.
func NewLookupRepository(db DB) LookupRepository {
	return &lookupRepository{db: db}
}

func (r *lookupRepository) Insert(ctx context.Context, entries []domain.LookupEntry) error {
	const query = `
        INSERT INTO lookup_values (request_type, object, code, language, description, field3, sequence, created_by, updated_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        ON CONFLICT (request_type, object, code, language) DO UPDATE SET
            description=EXCLUDED.description, field3=EXCLUDED.field3, sequence=EXCLUDED.sequence,
            updated_by=EXCLUDED.updated_by, updated_at=NOW()`
	for _, e := range entries {
		if _, err := r.db.Exec(ctx, query,
			e.RequestType, e.Object, e.Code, e.Language, e.Description, e.Field3, e.Sequence, e.CreatedBy, e.UpdatedBy,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *lookupRepository) Get(ctx context.Context, requestType, object, code, language string) (*domain.LookupEntry, error) {
	const query = `
        SELECT request_type, object, code, language, description, field3, sequence, created_by, updated_by
        FROM lookup_values WHERE request_type=$1 AND object=$2 AND code=$3 AND language=$4`
	return scanLookup(r.db.QueryRow(ctx, query, requestType, object, code, language))
}

func (r *lookupRepository) ListByObject(ctx context.Context, requestType, object, language string) ([]domain.LookupEntry, error) {
	const query = `
        SELECT request_type, object, code, language, description, field3, sequence, created_by, updated_by
        FROM lookup_values WHERE request_type=$1 AND object=$2 AND language=$3 ORDER BY sequence, code`
	rows, err := r.db.Query(ctx, query, requestType, object, language)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.LookupEntry
	for rows.Next() {
		e, err := scanLookup(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

func (r *lookupRepository) DeleteByObject(ctx context.Context, requestType, object string) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM lookup_values WHERE request_type=$1 AND object=$2`, requestType, object)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func scanLookup(row pgx.Row) (*domain.LookupEntry, error) {
	var e domain.LookupEntry
	err := row.Scan(
		&e.RequestType,
		&e.Object,
		&e.Code,
		&e.Language,
		&e.Description,
		&e.Field3,
		&e.Sequence,
		&e.CreatedBy,
		&e.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
