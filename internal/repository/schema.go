package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// The dedup index is the real at-most-once guarantee; the in-run AlreadySent
// pre-check is just an optimization on top of it.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS customers (
		id UUID PRIMARY KEY,
		first_name TEXT NOT NULL DEFAULT '',
		last_name TEXT NOT NULL DEFAULT '',
		email TEXT,
		phone TEXT,
		birthday_opt_in BOOLEAN NOT NULL DEFAULT false,
		birthday_month INT,
		birthday_day INT,
		birthday_updated_at TIMESTAMPTZ,
		anniversary_opt_in BOOLEAN NOT NULL DEFAULT false,
		anniversary_month INT,
		anniversary_day INT,
		anniversary_updated_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS reminder_settings (
		id UUID PRIMARY KEY,
		birthday_enabled BOOLEAN NOT NULL DEFAULT false,
		anniversary_enabled BOOLEAN NOT NULL DEFAULT false,
		occasion_enabled BOOLEAN NOT NULL DEFAULT false,
		reminder_days INT[] NOT NULL DEFAULT '{7,1}',
		birthday_subject TEXT NOT NULL,
		birthday_template TEXT,
		anniversary_subject TEXT NOT NULL,
		anniversary_template TEXT,
		occasion_subject TEXT NOT NULL,
		occasion_template TEXT,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS occasion_reminders (
		id UUID PRIMARY KEY,
		customer_id UUID NOT NULL REFERENCES customers(id),
		occasion TEXT NOT NULL,
		month INT NOT NULL CHECK (month BETWEEN 1 AND 12),
		day INT NOT NULL CHECK (day BETWEEN 1 AND 31),
		recipient_name TEXT,
		note TEXT,
		is_active BOOLEAN NOT NULL DEFAULT true,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS occasion_reminders_match_idx
		ON occasion_reminders (month, day) WHERE is_active`,
	`CREATE TABLE IF NOT EXISTS reminder_sends (
		id UUID PRIMARY KEY,
		customer_id UUID NOT NULL REFERENCES customers(id),
		reminder_id UUID REFERENCES occasion_reminders(id),
		type TEXT NOT NULL,
		year INT NOT NULL,
		days_before INT NOT NULL,
		destination TEXT NOT NULL,
		sent_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS reminder_sends_dedup_idx
		ON reminder_sends (
			customer_id,
			COALESCE(reminder_id, '00000000-0000-0000-0000-000000000000'::uuid),
			type,
			year,
			days_before
		)`,
}

// EnsureSchema creates the tables and indexes this service owns. Statements
// are idempotent so startup is safe to repeat.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
