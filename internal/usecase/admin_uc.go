package usecase

import (
	"context"
	"fmt"
	"sort"

	"reminder-service/internal/domain"
	"reminder-service/pkg/notifier"
	"reminder-service/pkg/template"
)

// Settings returns the singleton settings row, creating defaults on first read.
func (uc *ReminderUsecase) Settings(ctx context.Context) (*domain.ReminderSettings, error) {
	return uc.settings.GetOrCreate(ctx)
}

// UpdateSettings applies a sparse patch to the settings row.
func (uc *ReminderUsecase) UpdateSettings(ctx context.Context, patch domain.SettingsPatch) (*domain.ReminderSettings, error) {
	current, err := uc.settings.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}
	return uc.settings.Update(ctx, current.ID, patch)
}

// History returns the send ledger joined with display fields, newest first.
func (uc *ReminderUsecase) History(ctx context.Context, page, pageSize int) ([]domain.SendHistoryItem, int, error) {
	if page < 0 {
		page = 0
	}
	if pageSize < 1 {
		pageSize = 25
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return uc.ledger.History(ctx, page, pageSize)
}

// Upcoming scans forward over a bounded window and returns every calendar
// match an enabled type would produce, soonest first.
func (uc *ReminderUsecase) Upcoming(ctx context.Context, windowDays int) ([]domain.UpcomingReminder, error) {
	if windowDays < 1 {
		windowDays = 30
	}
	if windowDays > 90 {
		windowDays = 90
	}

	settings, err := uc.settings.GetOrCreate(ctx)
	if err != nil {
		return nil, err
	}

	today := uc.now().In(uc.loc)
	var upcoming []domain.UpcomingReminder

	for offset := 0; offset <= windowDays; offset++ {
		target := today.AddDate(0, 0, offset)
		month, day := int(target.Month()), target.Day()
		date := target.Format("2006-01-02")

		for _, typ := range []domain.ReminderType{domain.ReminderBirthday, domain.ReminderAnniversary, domain.ReminderOccasion} {
			if !settings.EnabledFor(typ) {
				continue
			}
			candidates, err := uc.match(ctx, typ, month, day)
			if err != nil {
				return nil, err
			}
			for _, cand := range candidates {
				item := domain.UpcomingReminder{
					Date:          date,
					Type:          typ,
					CustomerID:    cand.CustomerID,
					CustomerName:  displayName(cand),
					Email:         cand.Email,
					RecipientName: cand.RecipientName,
					DaysUntil:     offset,
				}
				if typ == domain.ReminderOccasion {
					item.Occasion = domain.NormalizeOccasionLabel(cand.Occasion)
				}
				upcoming = append(upcoming, item)
			}
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].Date < upcoming[j].Date
	})
	return upcoming, nil
}

// SendTest renders and dispatches one email with placeholder recipient data.
// It bypasses the dedup guard entirely and is never recorded in the ledger.
func (uc *ReminderUsecase) SendTest(ctx context.Context, email string, typ domain.ReminderType, daysBefore int) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if daysBefore < 0 {
		daysBefore = 0
	}
	if daysBefore > 365 {
		daysBefore = 365
	}
	switch typ {
	case domain.ReminderBirthday, domain.ReminderAnniversary, domain.ReminderOccasion:
	default:
		typ = domain.ReminderBirthday
	}

	settings, err := uc.settings.GetOrCreate(ctx)
	if err != nil {
		return err
	}

	cand := domain.Candidate{
		CustomerID: "test-customer",
		FirstName:  "Customer",
		Email:      email,
	}
	if typ == domain.ReminderOccasion {
		name := "Alex"
		cand.Occasion = "BIRTHDAY"
		cand.RecipientName = &name
	}

	subject, html, err := uc.render(settings, typ, cand, daysBefore)
	if err != nil {
		return fmt.Errorf("render test reminder: %w", err)
	}

	results := uc.notifier.Notify(ctx, notifier.Request{
		Type:     notificationTypeFor(typ),
		Channels: []notifier.Channel{notifier.ChannelEmail},
		Data: notifier.Data{
			FirstName: cand.FirstName,
			Email:     email,
			Subject:   subject,
			HTML:      html,
			ShopName:  uc.store.ShopName,
		},
	})
	if !notifier.Succeeded(results) {
		return fmt.Errorf("test send failed: %s", firstError(results))
	}
	return nil
}

// PreviewDefault renders the built-in template for an admin preview pane.
func (uc *ReminderUsecase) PreviewDefault(typ domain.ReminderType, daysBefore int) (string, error) {
	data := template.ReminderData{
		FirstName:      "Customer",
		RecipientName:  "Alex",
		Occasion:       "Birthday",
		DaysBefore:     daysBefore,
		ShopName:       uc.store.ShopName,
		ShopURL:        uc.store.ShopURL,
		LogoURL:        uc.store.LogoURL,
		UnsubscribeURL: uc.store.UnsubscribeURL,
		StoreAddress:   uc.store.StoreAddress,
		StorePhone:     uc.store.StorePhone,
		StoreEmail:     uc.store.StoreEmail,
	}
	switch typ {
	case domain.ReminderAnniversary:
		return template.BuildAnniversaryEmail(data)
	case domain.ReminderOccasion:
		return template.BuildOccasionEmail(data)
	default:
		return template.BuildBirthdayEmail(data)
	}
}

func displayName(cand domain.Candidate) string {
	name := cand.FirstName
	if cand.LastName != "" {
		if name != "" {
			name += " "
		}
		name += cand.LastName
	}
	return name
}
