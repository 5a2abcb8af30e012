package repository

import (
	"context"
	"errors"

	"reminder-service/internal/domain"
)

var ErrNotFound = errors.New("not found")

// SettingsStore owns the singleton reminder configuration row.
type SettingsStore interface {
	GetOrCreate(ctx context.Context) (*domain.ReminderSettings, error)
	Update(ctx context.Context, id string, patch domain.SettingsPatch) (*domain.ReminderSettings, error)
}

// CalendarStore reads customer birthday/anniversary facts and flips opt-in
// flags on unsubscribe.
type CalendarStore interface {
	MatchBirthdays(ctx context.Context, month, day int) ([]domain.Candidate, error)
	MatchAnniversaries(ctx context.Context, month, day int) ([]domain.Candidate, error)
	FindByIDAndEmail(ctx context.Context, id, email string) (*domain.Customer, error)
	SetBirthdayOptIn(ctx context.Context, customerID string, optIn bool) error
	SetAnniversaryOptIn(ctx context.Context, customerID string, optIn bool) error
}

// OccasionStore owns the customer-created occasion reminders.
type OccasionStore interface {
	MatchOccasions(ctx context.Context, month, day int) ([]domain.Candidate, error)
	Create(ctx context.Context, r *domain.OccasionReminder) (*domain.OccasionReminder, error)
	ListActiveByCustomer(ctx context.Context, customerID string) ([]*domain.OccasionReminder, error)
	Deactivate(ctx context.Context, id string) error
	// DeactivateForCustomer deactivates one reminder (reminderID set) or all
	// of the customer's active reminders (reminderID nil). Idempotent.
	DeactivateForCustomer(ctx context.Context, customerID string, reminderID *string) error
}

// LedgerStore is the append-only send ledger. Record relies on the storage
// unique constraint: a false return means another writer already holds the
// key, and the caller must treat the send as already done.
type LedgerStore interface {
	AlreadySent(ctx context.Context, key domain.SendKey) (bool, error)
	Record(ctx context.Context, entry *domain.SendLedgerEntry) (bool, error)
	History(ctx context.Context, page, pageSize int) ([]domain.SendHistoryItem, int, error)
}
