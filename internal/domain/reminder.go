package domain

import (
	"strings"
	"time"
)

type ReminderType string

const (
	ReminderBirthday    ReminderType = "BIRTHDAY"
	ReminderAnniversary ReminderType = "ANNIVERSARY"
	ReminderOccasion    ReminderType = "OCCASION"
)

// OccasionReminder is a customer-created recurring calendar event. Rows are
// never hard-deleted; IsActive=false takes them out of matching.
type OccasionReminder struct {
	ID            string     `json:"id"`
	CustomerID    string     `json:"customerId"`
	Occasion      string     `json:"occasion"`
	Month         int        `json:"month"`
	Day           int        `json:"day"`
	RecipientName *string    `json:"recipientName,omitempty"`
	Note          *string    `json:"note,omitempty"`
	IsActive      bool       `json:"isActive"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// Candidate is one recipient matched by the occasion matcher for a given
// (type, month, day). ReminderID is set only for occasion reminders.
type Candidate struct {
	CustomerID    string
	FirstName     string
	LastName      string
	Email         string
	ReminderID    *string
	Occasion      string
	RecipientName *string
}

// UpcomingReminder is a row of the forward-looking admin view.
type UpcomingReminder struct {
	Date          string       `json:"date"`
	Type          ReminderType `json:"type"`
	CustomerID    string       `json:"customerId"`
	CustomerName  string       `json:"customerName"`
	Email         string       `json:"email"`
	RecipientName *string      `json:"recipientName,omitempty"`
	Occasion      string       `json:"occasion,omitempty"`
	DaysUntil     int          `json:"daysUntil"`
}

// Labels stored by the checkout flow; anything else is title-cased.
var occasionLabels = map[string]string{
	"BIRTHDAY":       "Birthday",
	"ANNIVERSARY":    "Anniversary",
	"VALENTINES_DAY": "Valentine's Day",
	"MOTHERS_DAY":    "Mother's Day",
	"FATHERS_DAY":    "Father's Day",
	"THANK_YOU":      "Thank You",
	"GET_WELL":       "Get Well",
	"SYMPATHY":       "Sympathy",
	"OTHER":          "Other",
}

// NormalizeOccasionLabel turns a stored occasion code into display form.
// "THANK_YOU" -> "Thank You"; unknown codes like "custom_code" -> "Custom Code".
func NormalizeOccasionLabel(raw string) string {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" {
		return "Special Occasion"
	}
	if label, ok := occasionLabels[code]; ok {
		return label
	}
	words := strings.FieldsFunc(code, func(r rune) bool {
		return r == '_' || r == ' ' || r == '-'
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
