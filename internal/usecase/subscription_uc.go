package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"reminder-service/internal/domain"
	"reminder-service/pkg/token"
)

// CreateOccasionParams is the payload of both the checkout hook and the
// self-service create.
type CreateOccasionParams struct {
	Occasion      string
	DeliveryDate  string // YYYY-MM-DD; only month/day are kept
	RecipientName *string
	Note          *string
}

// CreateCheckoutOccasion verifies the customer by id+email before creating,
// since the checkout flow is unauthenticated.
func (uc *ReminderUsecase) CreateCheckoutOccasion(ctx context.Context, customerID, customerEmail string, params CreateOccasionParams) (*domain.OccasionReminder, error) {
	customerID = strings.TrimSpace(customerID)
	customerEmail = strings.ToLower(strings.TrimSpace(customerEmail))
	if customerID == "" || customerEmail == "" {
		return nil, fmt.Errorf("customerId and customerEmail are required")
	}

	customer, err := uc.customers.FindByIDAndEmail(ctx, customerID, customerEmail)
	if err != nil {
		return nil, err
	}
	return uc.CreateOccasion(ctx, customer.ID, params)
}

// CreateOccasion stores a new occasion reminder for a known customer.
func (uc *ReminderUsecase) CreateOccasion(ctx context.Context, customerID string, params CreateOccasionParams) (*domain.OccasionReminder, error) {
	month, day, err := parseReminderDate(params.DeliveryDate)
	if err != nil {
		return nil, err
	}

	occasion := strings.ToUpper(strings.TrimSpace(params.Occasion))
	if occasion == "" {
		occasion = "OTHER"
	}

	return uc.occasions.Create(ctx, &domain.OccasionReminder{
		CustomerID:    customerID,
		Occasion:      occasion,
		Month:         month,
		Day:           day,
		RecipientName: trimPtr(params.RecipientName),
		Note:          trimPtr(params.Note),
	})
}

// ListOccasions returns a customer's active occasion reminders.
func (uc *ReminderUsecase) ListOccasions(ctx context.Context, customerID string) ([]*domain.OccasionReminder, error) {
	return uc.occasions.ListActiveByCustomer(ctx, customerID)
}

// DeactivateOccasion soft-deletes one occasion reminder.
func (uc *ReminderUsecase) DeactivateOccasion(ctx context.Context, id string) error {
	return uc.occasions.Deactivate(ctx, id)
}

// Redeem verifies an unsubscribe token and applies its side effect: flip the
// matching opt-in flag, or deactivate one or all occasion reminders.
// Redeeming an already-opted-out preference is a no-op, so the endpoint is
// idempotent.
func (uc *ReminderUsecase) Redeem(ctx context.Context, tok string) error {
	payload, err := uc.tokens.Verify(tok)
	if err != nil {
		return err
	}

	switch payload.Type {
	case token.TypeBirthday:
		return uc.customers.SetBirthdayOptIn(ctx, payload.CustomerID, false)
	case token.TypeAnniversary:
		return uc.customers.SetAnniversaryOptIn(ctx, payload.CustomerID, false)
	case token.TypeOccasion:
		var reminderID *string
		if payload.ReminderID != "" {
			reminderID = &payload.ReminderID
		}
		return uc.occasions.DeactivateForCustomer(ctx, payload.CustomerID, reminderID)
	}
	return fmt.Errorf("unknown token type %q", payload.Type)
}

// parseReminderDate extracts (month, day) from a YYYY-MM-DD delivery date.
// The year is intentionally dropped: occasions recur annually.
func parseReminderDate(input string) (int, int, error) {
	parsed, err := time.Parse("2006-01-02", strings.TrimSpace(input))
	if err != nil {
		return 0, 0, fmt.Errorf("valid deliveryDate is required")
	}
	return int(parsed.Month()), parsed.Day(), nil
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
