package repository

import (
	"context"

	"github.com/spec-kit/case-service/internal/domain"
)

// AuthMatrixRepository manages resolution-group membership rows.
type AuthMatrixRepository interface {
	Insert(ctx context.Context, entries []domain.AuthMatrixEntry) error
	List(ctx context.Context) ([]domain.AuthMatrixEntry, error)
	ListByGroup(ctx context.Context, group string) ([]domain.AuthMatrixEntry, error)
	Delete(ctx context.Context, group, email string) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type authMatrixRepository struct {
	db DB
}

// NewAuthMatrixRepository instantiates repository.
func NewAuthMatrixRepository(db DB) AuthMatrixRepository {
	return &authMatrixRepository{db: db}
}

func (r *authMatrixRepository) Insert(ctx context.Context, entries []domain.AuthMatrixEntry) error {
	const query = `
        INSERT INTO auth_matrix (assigned_group, user_email, field1, created_by, updated_by)
        VALUES ($1,$2,$3,$4,$5)
        ON CONFLICT (assigned_group, user_email) DO UPDATE SET
            field1=EXCLUDED.field1, updated_by=EXCLUDED.updated_by, updated_at=NOW()`
	for _, e := range entries {
		if _, err := r.db.Exec(ctx, query, e.AssignedGroup, e.UserEmail, e.Field1, e.CreatedBy, e.UpdatedBy); err != nil {
			return err
		}
	}
	return nil
}

func (r *authMatrixRepository) List(ctx context.Context) ([]domain.AuthMatrixEntry, error) {
	const query = `
        SELECT assigned_group, user_email, field1, created_by, updated_by, created_at, updated_at
        FROM auth_matrix ORDER BY assigned_group, user_email`
	return r.queryEntries(ctx, query)
}

func (r *authMatrixRepository) ListByGroup(ctx context.Context, group string) ([]domain.AuthMatrixEntry, error) {
	const query = `
        SELECT assigned_group, user_email, field1, created_by, updated_by, created_at, updated_at
        FROM auth_matrix WHERE assigned_group=$1 ORDER BY user_email`
	return r.queryEntries(ctx, query, group)
}

func (r *authMatrixRepository) Delete(ctx context.Context, group, email string) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM auth_matrix WHERE assigned_group=$1 AND user_email=$2`, group, email)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *authMatrixRepository) DeleteAll(ctx context.Context) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM auth_matrix`)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *authMatrixRepository) queryEntries(ctx context.Context, query string, args ...any) ([]domain.AuthMatrixEntry, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.AuthMatrixEntry
	for rows.Next() {
		var e domain.AuthMatrixEntry
		if err := rows.Scan(&e.AssignedGroup, &e.UserEmail, &e.Field1, &e.CreatedBy, &e.UpdatedBy, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
