package repository

import (
	"context"
	"time"
)

// Holiday is one non-business calendar date.
type Holiday struct {
	Day         time.Time
	Description string
}

// HolidayRepository serves the public-holiday calendar the SLA
// computation skips over.
type HolidayRepository interface {
	Insert(ctx context.Context, holidays []Holiday) error
	ListDates(ctx context.Context) ([]time.Time, error)
	DeleteAll(ctx context.Context) (int64, error)
}

type holidayRepository struct {
	db DB
}

// NewHolidayRepository instantiates repository.
func NewHolidayRepository(db DB) HolidayRepository {
	return &holidayRepository{db: db}
}

func (r *holidayRepository) Insert(ctx context.Context, holidays []Holiday) error {
	const query = `
        INSERT INTO public_holidays (day, description)
        VALUES ($1,$2)
        ON CONFLICT (day) DO UPDATE SET description=EXCLUDED.description`
	for _, h := range holidays {
		if _, err := r.db.Exec(ctx, query, h.Day, h.Description); err != nil {
			return err
		}
	}
	return nil
}

func (r *holidayRepository) ListDates(ctx context.Context) ([]time.Time, error) {
	rows, err := r.db.Query(ctx, `SELECT day FROM public_holidays ORDER BY day`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

func (r *holidayRepository) DeleteAll(ctx context.Context) (int64, error) {
	cmd, err := r.db.Exec(ctx, `DELETE FROM public_holidays`)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
