package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"reminder-service/internal/domain"
)

type ledgerRepo struct {
	db *pgxpool.Pool
}

func NewLedgerRepo(db *pgxpool.Pool) LedgerStore {
	return &ledgerRepo{db: db}
}

func (r *ledgerRepo) AlreadySent(ctx context.Context, key domain.SendKey) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM reminder_sends
			WHERE customer_id = $1
			  AND reminder_id IS NOT DISTINCT FROM $2
			  AND type = $3
			  AND year = $4
			  AND days_before = $5
		)
	`, key.CustomerID, key.ReminderID, string(key.Type), key.Year, key.DaysBefore).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("ledger lookup: %w", err)
	}
	return exists, nil
}

// Record appends a ledger entry. ON CONFLICT DO NOTHING against the dedup
// index makes the constraint the source of truth; false means another writer
// already recorded this key.
func (r *ledgerRepo) Record(ctx context.Context, entry *domain.SendLedgerEntry) (bool, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	ct, err := r.db.Exec(ctx, `
		INSERT INTO reminder_sends (id, customer_id, reminder_id, type, year, days_before, destination)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT DO NOTHING
	`, entry.ID, entry.CustomerID, entry.ReminderID, string(entry.Type), entry.Year, entry.DaysBefore, entry.Destination)
	if err != nil {
		return false, fmt.Errorf("ledger insert: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

func (r *ledgerRepo) History(ctx context.Context, page, pageSize int) ([]domain.SendHistoryItem, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reminder_sends`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ledger count: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT s.id, s.customer_id, s.reminder_id, s.type, s.year, s.days_before,
		       s.destination, s.sent_at,
		       trim(c.first_name || ' ' || c.last_name), COALESCE(c.email, ''),
		       o.occasion, o.recipient_name
		FROM reminder_sends s
		JOIN customers c ON c.id = s.customer_id
		LEFT JOIN occasion_reminders o ON o.id = s.reminder_id
		ORDER BY s.sent_at DESC
		LIMIT $1 OFFSET $2
	`, pageSize, page*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("ledger history: %w", err)
	}
	defer rows.Close()

	var items []domain.SendHistoryItem
	for rows.Next() {
		var (
			item domain.SendHistoryItem
			typ  string
		)
		if err := rows.Scan(&item.ID, &item.CustomerID, &item.ReminderID, &typ, &item.Year,
			&item.DaysBefore, &item.Destination, &item.SentAt,
			&item.CustomerName, &item.CustomerEmail, &item.Occasion, &item.RecipientName); err != nil {
			return nil, 0, fmt.Errorf("scan history row: %w", err)
		}
		item.Type = domain.ReminderType(typ)
		items = append(items, item)
	}
	return items, total, rows.Err()
}
