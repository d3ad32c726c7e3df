package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/case-service/internal/domain"
)

// UserRepository caches identity records locally, keyed by (email, language).
type UserRepository interface {
	Upsert(ctx context.Context, u *domain.CoreUser) error
	Get(ctx context.Context, email, language string) (*domain.CoreUser, error)
	List(ctx context.Context, limit, offset int) ([]domain.CoreUser, error)
	DeleteByEmails(ctx context.Context, emails []string) (int64, error)
}

type userRepository struct {
	db DB
}

// NewUserRepository instantiates repository.
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Upsert(ctx context.Context, u *domain.CoreUser) error {
	const query = `
        INSERT INTO core_users (email, language, emp_id, first_name, last_name, entity, active, created_by, updated_by)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        ON CONFLICT (email, language) DO UPDATE SET
            emp_id=EXCLUDED.emp_id, first_name=EXCLUDED.first_name, last_name=EXCLUDED.last_name,
            entity=EXCLUDED.entity, active=EXCLUDED.active, updated_by=EXCLUDED.updated_by, updated_at=NOW()
        RETURNING created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		u.Email,
		u.Language,
		u.EmpID,
		u.FirstName,
		u.LastName,
		u.Entity,
		u.Active,
		u.CreatedBy,
		u.UpdatedBy,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
}

func (r *userRepository) Get(ctx context.Context, email, language string) (*domain.CoreUser, error) {
	const query = `
        SELECT email, language, emp_id, first_name, last_name, entity, active, created_by, updated_by, created_at, updated_at
        FROM core_users WHERE email=$1 AND language=$2`
	return scanUser(r.db.QueryRow(ctx, query, email, language))
}

func (r *userRepository) List(ctx context.Context, limit, offset int) ([]domain.CoreUser, error) {
	const query = `
        SELECT email, language, emp_id, first_name, last_name, entity, active, created_by, updated_by, created_at, updated_at
        FROM core_users ORDER BY email, language LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.CoreUser
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *userRepository) DeleteByEmails(ctx context.Context, emails []string) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM core_users WHERE email = ANY($1)`, emails)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func scanUser(row pgx.Row) (*domain.CoreUser, error) {
	var u domain.CoreUser
	err := row.Scan(
		&u.Email,
		&u.Language,
		&u.EmpID,
		&u.FirstName,
		&u.LastName,
		&u.Entity,
		&u.Active,
		&u.CreatedBy,
		&u.UpdatedBy,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
