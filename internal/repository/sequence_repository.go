package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/case-service/internal/domain"
)

// SequenceRepository mints monotonically increasing numbers per
// (year, request type, id type) counter. Next must run inside a
// transaction: the FOR UPDATE row lock serialises concurrent submitters
// and is held until that transaction ends.
type SequenceRepository interface {
	Next(ctx context.Context, year int, requestType domain.RequestType, idType domain.SequenceIDType, actor string) (int, error)
}

type sequenceRepository struct {
	db DB
}

// NewSequenceRepository instantiates repository.
func NewSequenceRepository(db DB) SequenceRepository {
	return &sequenceRepository{db: db}
}

func (r *sequenceRepository) Next(ctx context.Context, year int, requestType domain.RequestType, idType domain.SequenceIDType, actor string) (int, error) {
	const selectQuery = `
        SELECT current_value FROM id_sequences
        WHERE seq_year=$1 AND request_type=$2 AND id_type=$3
        FOR UPDATE`

	var current int
	err := r.db.QueryRow(ctx, selectQuery, year, requestType, idType).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		const insertQuery = `
            INSERT INTO id_sequences (seq_year, request_type, id_type, current_value, created_by, updated_by)
            VALUES ($1,$2,$3,1,$4,$4)`
		if _, err := r.db.Exec(ctx, insertQuery, year, requestType, idType, actor); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}

	next := current + 1
	const updateQuery = `
        UPDATE id_sequences SET current_value=$1, updated_by=$2, updated_at=NOW()
        WHERE seq_year=$3 AND request_type=$4 AND id_type=$5`
	if _, err := r.db.Exec(ctx, updateQuery, next, actor, year, requestType, idType); err != nil {
		return 0, err
	}
	return next, nil
}
