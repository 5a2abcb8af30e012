package domain

import "time"

// SendKey identifies one (customer, event, year, lead time) notification.
// At most one ledger entry may ever exist per key.
type SendKey struct {
	CustomerID string
	ReminderID *string
	Type       ReminderType
	Year       int
	DaysBefore int
}

// SendLedgerEntry is an immutable record of one successful dispatch.
// Entries are only written after the channel confirmed the send.
type SendLedgerEntry struct {
	ID          string       `json:"id"`
	CustomerID  string       `json:"customerId"`
	ReminderID  *string      `json:"reminderId,omitempty"`
	Type        ReminderType `json:"type"`
	Year        int          `json:"year"`
	DaysBefore  int          `json:"daysBefore"`
	Destination string       `json:"destination"`
	SentAt      time.Time    `json:"sentAt"`
}

// Key returns the dedup key of an entry.
func (e SendLedgerEntry) Key() SendKey {
	return SendKey{
		CustomerID: e.CustomerID,
		ReminderID: e.ReminderID,
		Type:       e.Type,
		Year:       e.Year,
		DaysBefore: e.DaysBefore,
	}
}

// SendHistoryItem is a ledger entry joined with display fields for the
// history/audit view.
type SendHistoryItem struct {
	SendLedgerEntry
	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	Occasion      *string `json:"occasion,omitempty"`
	RecipientName *string `json:"recipientName,omitempty"`
}
