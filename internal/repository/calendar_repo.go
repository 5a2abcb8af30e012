package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"reminder-service/internal/domain"
)

type calendarRepo struct {
	db *pgxpool.Pool
}

func NewCalendarRepo(db *pgxpool.Pool) CalendarStore {
	return &calendarRepo{db: db}
}

// Matching is a plain month/day equality: events recur every year, and a
// Feb 29 date simply never matches in a non-leap target year.
func (r *calendarRepo) MatchBirthdays(ctx context.Context, month, day int) ([]domain.Candidate, error) {
	return r.matchCustomers(ctx, `
		SELECT id, first_name, last_name, email
		FROM customers
		WHERE birthday_opt_in = true
		  AND birthday_month = $1
		  AND birthday_day = $2
		  AND email IS NOT NULL AND email <> ''
	`, month, day)
}

func (r *calendarRepo) MatchAnniversaries(ctx context.Context, month, day int) ([]domain.Candidate, error) {
	return r.matchCustomers(ctx, `
		SELECT id, first_name, last_name, email
		FROM customers
		WHERE anniversary_opt_in = true
		  AND anniversary_month = $1
		  AND anniversary_day = $2
		  AND email IS NOT NULL AND email <> ''
	`, month, day)
}

func (r *calendarRepo) matchCustomers(ctx context.Context, query string, month, day int) ([]domain.Candidate, error) {
	rows, err := r.db.Query(ctx, query, month, day)
	if err != nil {
		return nil, fmt.Errorf("match customers: %w", err)
	}
	defer rows.Close()

	var out []domain.Candidate
	for rows.Next() {
		var c domain.Candidate
		if err := rows.Scan(&c.CustomerID, &c.FirstName, &c.LastName, &c.Email); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *calendarRepo) FindByIDAndEmail(ctx context.Context, id, email string) (*domain.Customer, error) {
	var c domain.Customer
	err := r.db.QueryRow(ctx, `
		SELECT id, first_name, last_name, email, phone,
		       birthday_opt_in, birthday_month, birthday_day,
		       anniversary_opt_in, anniversary_month, anniversary_day
		FROM customers
		WHERE id = $1 AND lower(email) = lower($2)
	`, id, email).Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone,
		&c.BirthdayOptIn, &c.BirthdayMonth, &c.BirthdayDay,
		&c.AnniversaryOptIn, &c.AnniversaryMonth, &c.AnniversaryDay,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find customer: %w", err)
	}
	return &c, nil
}

func (r *calendarRepo) SetBirthdayOptIn(ctx context.Context, customerID string, optIn bool) error {
	_, err := r.db.Exec(ctx, `
		UPDATE customers
		SET birthday_opt_in = $2, birthday_updated_at = now()
		WHERE id = $1
	`, customerID, optIn)
	if err != nil {
		return fmt.Errorf("set birthday opt-in: %w", err)
	}
	return nil
}

func (r *calendarRepo) SetAnniversaryOptIn(ctx context.Context, customerID string, optIn bool) error {
	_, err := r.db.Exec(ctx, `
		UPDATE customers
		SET anniversary_opt_in = $2, anniversary_updated_at = now()
		WHERE id = $1
	`, customerID, optIn)
	if err != nil {
		return fmt.Errorf("set anniversary opt-in: %w", err)
	}
	return nil
}
