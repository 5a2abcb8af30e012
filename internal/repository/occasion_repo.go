package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"reminder-service/internal/domain"
)

type occasionRepo struct {
	db *pgxpool.Pool
}

func NewOccasionRepo(db *pgxpool.Pool) OccasionStore {
	return &occasionRepo{db: db}
}

func (r *occasionRepo) MatchOccasions(ctx context.Context, month, day int) ([]domain.Candidate, error) {
	rows, err := r.db.Query(ctx, `
		SELECT o.id, o.occasion, o.recipient_name, c.id, c.first_name, c.last_name, c.email
		FROM occasion_reminders o
		JOIN customers c ON c.id = o.customer_id
		WHERE o.is_active = true
		  AND o.month = $1
		  AND o.day = $2
		  AND c.email IS NOT NULL AND c.email <> ''
	`, month, day)
	if err != nil {
		return nil, fmt.Errorf("match occasions: %w", err)
	}
	defer rows.Close()

	var out []domain.Candidate
	for rows.Next() {
		var (
			c          domain.Candidate
			reminderID string
		)
		if err := rows.Scan(&reminderID, &c.Occasion, &c.RecipientName,
			&c.CustomerID, &c.FirstName, &c.LastName, &c.Email); err != nil {
			return nil, fmt.Errorf("scan occasion candidate: %w", err)
		}
		c.ReminderID = &reminderID
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *occasionRepo) Create(ctx context.Context, rem *domain.OccasionReminder) (*domain.OccasionReminder, error) {
	if rem.ID == "" {
		rem.ID = uuid.NewString()
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO occasion_reminders (id, customer_id, occasion, month, day, recipient_name, note, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, true)
		RETURNING created_at
	`, rem.ID, rem.CustomerID, rem.Occasion, rem.Month, rem.Day, rem.RecipientName, rem.Note).Scan(&rem.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create occasion reminder: %w", err)
	}
	rem.IsActive = true
	return rem, nil
}

func (r *occasionRepo) ListActiveByCustomer(ctx context.Context, customerID string) ([]*domain.OccasionReminder, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, customer_id, occasion, month, day, recipient_name, note, is_active, created_at
		FROM occasion_reminders
		WHERE customer_id = $1 AND is_active = true
		ORDER BY month ASC, day ASC, created_at DESC
	`, customerID)
	if err != nil {
		return nil, fmt.Errorf("list occasion reminders: %w", err)
	}
	defer rows.Close()

	var out []*domain.OccasionReminder
	for rows.Next() {
		var rem domain.OccasionReminder
		if err := rows.Scan(&rem.ID, &rem.CustomerID, &rem.Occasion, &rem.Month, &rem.Day,
			&rem.RecipientName, &rem.Note, &rem.IsActive, &rem.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan occasion reminder: %w", err)
		}
		out = append(out, &rem)
	}
	return out, rows.Err()
}

func (r *occasionRepo) Deactivate(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `
		UPDATE occasion_reminders SET is_active = false
		WHERE id = $1 AND is_active = true
	`, id)
	if err != nil {
		return fmt.Errorf("deactivate occasion reminder: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *occasionRepo) DeactivateForCustomer(ctx context.Context, customerID string, reminderID *string) error {
	var err error
	if reminderID != nil {
		_, err = r.db.Exec(ctx, `
			UPDATE occasion_reminders SET is_active = false
			WHERE id = $1 AND customer_id = $2
		`, *reminderID, customerID)
	} else {
		_, err = r.db.Exec(ctx, `
			UPDATE occasion_reminders SET is_active = false
			WHERE customer_id = $1 AND is_active = true
		`, customerID)
	}
	if err != nil {
		return fmt.Errorf("deactivate customer reminders: %w", err)
	}
	return nil
}
