package usecase

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"reminder-service/internal/domain"
	"reminder-service/internal/repository"
	"reminder-service/pkg/notifier"
	"reminder-service/pkg/template"
	"reminder-service/pkg/token"
)

// Dispatcher is the slice of the notifier the orchestrator needs.
type Dispatcher interface {
	Notify(ctx context.Context, req notifier.Request) []notifier.Result
}

// StoreInfo is the shop identity rendered into every reminder.
type StoreInfo struct {
	ShopName       string
	ShopURL        string
	LogoURL        string
	StoreAddress   string
	StorePhone     string
	StoreEmail     string
	UnsubscribeURL string // base endpoint; token is appended as a query param
}

// RunSummary is the aggregate outcome of one orchestrator run.
type RunSummary struct {
	Sent    int           `json:"sent"`
	Skipped int           `json:"skipped"`
	Failed  int           `json:"failed"`
	Elapsed time.Duration `json:"-"`
}

type outcome int

const (
	outcomeSent outcome = iota
	outcomeSkipped
	outcomeFailed
)

// candidateResult is the explicit per-candidate verdict; expected conditions
// (already sent, no destination) are skips, not errors.
type candidateResult struct {
	outcome outcome
	reason  string
	err     error
}

type ReminderUsecase struct {
	settings  repository.SettingsStore
	customers repository.CalendarStore
	occasions repository.OccasionStore
	ledger    repository.LedgerStore
	notifier  Dispatcher
	tokens    *token.Service
	store     StoreInfo
	loc       *time.Location
	logger    *zap.Logger

	workers int
	now     func() time.Time
}

func NewReminderUsecase(
	settings repository.SettingsStore,
	customers repository.CalendarStore,
	occasions repository.OccasionStore,
	ledger repository.LedgerStore,
	dispatcher Dispatcher,
	tokens *token.Service,
	store StoreInfo,
	loc *time.Location,
	logger *zap.Logger,
) *ReminderUsecase {
	return &ReminderUsecase{
		settings:  settings,
		customers: customers,
		occasions: occasions,
		ledger:    ledger,
		notifier:  dispatcher,
		tokens:    tokens,
		store:     store,
		loc:       loc,
		logger:    logger,
		workers:   4,
		now:       time.Now,
	}
}

// ProcessReminders is the daily batch body. It never returns an error:
// per-candidate failures are isolated and counted, and the whole run is safe
// to invoke repeatedly because the ledger makes sends idempotent.
func (uc *ReminderUsecase) ProcessReminders(ctx context.Context) RunSummary {
	started := uc.now()
	var summary RunSummary

	settings, err := uc.settings.GetOrCreate(ctx)
	if err != nil {
		uc.logger.Error("reminder run aborted: settings unavailable", zap.Error(err))
		summary.Elapsed = uc.now().Sub(started)
		return summary
	}
	if !settings.EnabledAny() {
		uc.logger.Info("reminder run skipped: all reminder toggles are disabled")
		summary.Elapsed = uc.now().Sub(started)
		return summary
	}

	today := uc.now().In(uc.loc)
	var mu sync.Mutex

	for _, daysBefore := range settings.ReminderDays {
		target := today.AddDate(0, 0, daysBefore)
		month, day := int(target.Month()), target.Day()
		// Dedup keys use the target year, so a lead time crossing Dec 31
		// belongs to the event's year, not the trigger's.
		targetYear := target.Year()

		for _, typ := range []domain.ReminderType{domain.ReminderBirthday, domain.ReminderAnniversary, domain.ReminderOccasion} {
			if !settings.EnabledFor(typ) {
				continue
			}

			candidates, err := uc.match(ctx, typ, month, day)
			if err != nil {
				uc.logger.Error("candidate query failed",
					zap.String("type", string(typ)),
					zap.Int("month", month),
					zap.Int("day", day),
					zap.Error(err))
				continue
			}

			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(uc.workers)
			for _, cand := range candidates {
				cand := cand
				g.Go(func() error {
					res := uc.processCandidate(gctx, settings, typ, cand, targetYear, daysBefore)
					mu.Lock()
					switch res.outcome {
					case outcomeSent:
						summary.Sent++
					case outcomeSkipped:
						summary.Skipped++
					case outcomeFailed:
						summary.Failed++
					}
					mu.Unlock()
					if res.outcome == outcomeFailed {
						uc.logger.Warn("reminder failed",
							zap.String("type", string(typ)),
							zap.String("customer_id", cand.CustomerID),
							zap.Int("days_before", daysBefore),
							zap.String("reason", res.reason),
							zap.Error(res.err))
					}
					return nil
				})
			}
			_ = g.Wait()
		}
	}

	summary.Elapsed = uc.now().Sub(started)
	uc.logger.Info("reminder run completed",
		zap.Int("sent", summary.Sent),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
		zap.Duration("elapsed", summary.Elapsed))
	return summary
}

func (uc *ReminderUsecase) match(ctx context.Context, typ domain.ReminderType, month, day int) ([]domain.Candidate, error) {
	switch typ {
	case domain.ReminderBirthday:
		return uc.customers.MatchBirthdays(ctx, month, day)
	case domain.ReminderAnniversary:
		return uc.customers.MatchAnniversaries(ctx, month, day)
	case domain.ReminderOccasion:
		return uc.occasions.MatchOccasions(ctx, month, day)
	}
	return nil, fmt.Errorf("unknown reminder type %q", typ)
}

func (uc *ReminderUsecase) processCandidate(
	ctx context.Context,
	settings *domain.ReminderSettings,
	typ domain.ReminderType,
	cand domain.Candidate,
	targetYear, daysBefore int,
) candidateResult {
	if cand.Email == "" {
		// Matchers exclude these in SQL; kept as a guard for fake stores.
		return candidateResult{outcome: outcomeSkipped, reason: "no destination"}
	}

	key := domain.SendKey{
		CustomerID: cand.CustomerID,
		ReminderID: cand.ReminderID,
		Type:       typ,
		Year:       targetYear,
		DaysBefore: daysBefore,
	}
	already, err := uc.ledger.AlreadySent(ctx, key)
	if err != nil {
		return candidateResult{outcome: outcomeFailed, reason: "ledger lookup", err: err}
	}
	if already {
		return candidateResult{outcome: outcomeSkipped, reason: "already sent"}
	}

	subject, html, err := uc.render(settings, typ, cand, daysBefore)
	if err != nil {
		return candidateResult{outcome: outcomeFailed, reason: "render", err: err}
	}

	results := uc.notifier.Notify(ctx, notifier.Request{
		Type:     notificationTypeFor(typ),
		Channels: []notifier.Channel{notifier.ChannelEmail},
		Data: notifier.Data{
			FirstName: cand.FirstName,
			LastName:  cand.LastName,
			Email:     cand.Email,
			Subject:   subject,
			HTML:      html,
			ShopName:  uc.store.ShopName,
		},
	})
	if !notifier.Succeeded(results) {
		return candidateResult{outcome: outcomeFailed, reason: "dispatch", err: fmt.Errorf("%s", firstError(results))}
	}

	inserted, err := uc.ledger.Record(ctx, &domain.SendLedgerEntry{
		CustomerID:  cand.CustomerID,
		ReminderID:  cand.ReminderID,
		Type:        typ,
		Year:        targetYear,
		DaysBefore:  daysBefore,
		Destination: cand.Email,
		SentAt:      uc.now(),
	})
	if err != nil {
		return candidateResult{outcome: outcomeFailed, reason: "ledger write", err: err}
	}
	if !inserted {
		// An overlapping run won the constraint race after our pre-check.
		return candidateResult{outcome: outcomeSkipped, reason: "already sent (concurrent)"}
	}
	return candidateResult{outcome: outcomeSent}
}

// render produces the subject and HTML body for one candidate, preferring
// the operator template over the built-in default.
func (uc *ReminderUsecase) render(
	settings *domain.ReminderSettings,
	typ domain.ReminderType,
	cand domain.Candidate,
	daysBefore int,
) (string, string, error) {
	unsubscribeURL, err := uc.unsubscribeURL(typ, cand)
	if err != nil {
		return "", "", err
	}

	data := template.ReminderData{
		FirstName:      cand.FirstName,
		DaysBefore:     daysBefore,
		ShopName:       uc.store.ShopName,
		ShopURL:        uc.store.ShopURL,
		LogoURL:        uc.store.LogoURL,
		UnsubscribeURL: unsubscribeURL,
		StoreAddress:   uc.store.StoreAddress,
		StorePhone:     uc.store.StorePhone,
		StoreEmail:     uc.store.StoreEmail,
	}
	if typ == domain.ReminderOccasion {
		data.Occasion = domain.NormalizeOccasionLabel(cand.Occasion)
		if cand.RecipientName != nil {
			data.RecipientName = *cand.RecipientName
		}
	}

	subject := settings.SubjectFor(typ)

	if custom := settings.TemplateFor(typ); custom != nil && *custom != "" {
		return subject, template.ApplyTokens(*custom, data.Tokens()), nil
	}

	var html string
	switch typ {
	case domain.ReminderBirthday:
		html, err = template.BuildBirthdayEmail(data)
	case domain.ReminderAnniversary:
		html, err = template.BuildAnniversaryEmail(data)
	default:
		html, err = template.BuildOccasionEmail(data)
	}
	if err != nil {
		return "", "", err
	}
	return subject, html, nil
}

func (uc *ReminderUsecase) unsubscribeURL(typ domain.ReminderType, cand domain.Candidate) (string, error) {
	reminderID := ""
	if cand.ReminderID != nil {
		reminderID = *cand.ReminderID
	}
	tok, err := uc.tokens.Sign(cand.CustomerID, tokenTypeFor(typ), reminderID)
	if err != nil {
		return "", fmt.Errorf("sign unsubscribe token: %w", err)
	}
	return uc.store.UnsubscribeURL + "?token=" + url.QueryEscape(tok), nil
}

func notificationTypeFor(typ domain.ReminderType) notifier.NotificationType {
	switch typ {
	case domain.ReminderBirthday:
		return notifier.TypeBirthdayReminder
	case domain.ReminderAnniversary:
		return notifier.TypeAnniversaryReminder
	default:
		return notifier.TypeOccasionReminder
	}
}

func tokenTypeFor(typ domain.ReminderType) string {
	switch typ {
	case domain.ReminderBirthday:
		return token.TypeBirthday
	case domain.ReminderAnniversary:
		return token.TypeAnniversary
	default:
		return token.TypeOccasion
	}
}

func firstError(results []notifier.Result) string {
	for _, r := range results {
		if !r.Success && r.Error != "" {
			return r.Error
		}
	}
	return "all channels failed"
}
