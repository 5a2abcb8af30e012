package httphandler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"reminder-service/internal/domain"
	"reminder-service/internal/repository"
	"reminder-service/internal/usecase"
	"reminder-service/pkg/notifier"
	"reminder-service/pkg/token"
)

// Minimal in-memory stores; only what the exercised endpoints touch.

type stubSettings struct{ settings domain.ReminderSettings }

func (s *stubSettings) GetOrCreate(context.Context) (*domain.ReminderSettings, error) {
	out := s.settings
	return &out, nil
}

func (s *stubSettings) Update(_ context.Context, _ string, patch domain.SettingsPatch) (*domain.ReminderSettings, error) {
	if patch.BirthdayEnabled != nil {
		s.settings.BirthdayEnabled = *patch.BirthdayEnabled
	}
	out := s.settings
	return &out, nil
}

type stubCalendar struct {
	customers      map[string]*domain.Customer
	birthdayOptOut []string
}

func (s *stubCalendar) MatchBirthdays(context.Context, int, int) ([]domain.Candidate, error) {
	return nil, nil
}

func (s *stubCalendar) MatchAnniversaries(context.Context, int, int) ([]domain.Candidate, error) {
	return nil, nil
}

func (s *stubCalendar) FindByIDAndEmail(_ context.Context, id, email string) (*domain.Customer, error) {
	c, ok := s.customers[id]
	if !ok || c.Email == nil || *c.Email != email {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

func (s *stubCalendar) SetBirthdayOptIn(_ context.Context, customerID string, optIn bool) error {
	if !optIn {
		s.birthdayOptOut = append(s.birthdayOptOut, customerID)
	}
	return nil
}

func (s *stubCalendar) SetAnniversaryOptIn(context.Context, string, bool) error { return nil }

type stubOccasions struct{ created []*domain.OccasionReminder }

func (s *stubOccasions) MatchOccasions(context.Context, int, int) ([]domain.Candidate, error) {
	return nil, nil
}

func (s *stubOccasions) Create(_ context.Context, r *domain.OccasionReminder) (*domain.OccasionReminder, error) {
	r.ID = fmt.Sprintf("occ-%d", len(s.created)+1)
	r.IsActive = true
	s.created = append(s.created, r)
	return r, nil
}

func (s *stubOccasions) ListActiveByCustomer(_ context.Context, customerID string) ([]*domain.OccasionReminder, error) {
	var out []*domain.OccasionReminder
	for _, r := range s.created {
		if r.CustomerID == customerID && r.IsActive {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubOccasions) Deactivate(_ context.Context, id string) error {
	for _, r := range s.created {
		if r.ID == id {
			r.IsActive = false
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *stubOccasions) DeactivateForCustomer(context.Context, string, *string) error { return nil }

type stubLedger struct{}

func (stubLedger) AlreadySent(context.Context, domain.SendKey) (bool, error) { return false, nil }
func (stubLedger) Record(context.Context, *domain.SendLedgerEntry) (bool, error) {
	return true, nil
}
func (stubLedger) History(context.Context, int, int) ([]domain.SendHistoryItem, int, error) {
	return nil, 0, nil
}

type stubDispatcher struct{ reqs []notifier.Request }

func (s *stubDispatcher) Notify(_ context.Context, req notifier.Request) []notifier.Result {
	s.reqs = append(s.reqs, req)
	return []notifier.Result{{Channel: notifier.ChannelEmail, Success: true}}
}

type handlerFixture struct {
	router     chi.Router
	settings   *stubSettings
	calendar   *stubCalendar
	occasions  *stubOccasions
	dispatcher *stubDispatcher
	tokens     *token.Service
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	tokens, err := token.NewService("test-secret", "test", zap.NewNop())
	require.NoError(t, err)

	f := &handlerFixture{
		settings:   &stubSettings{settings: domain.DefaultSettings()},
		calendar:   &stubCalendar{customers: map[string]*domain.Customer{}},
		occasions:  &stubOccasions{},
		dispatcher: &stubDispatcher{},
		tokens:     tokens,
	}

	uc := usecase.NewReminderUsecase(
		f.settings, f.calendar, f.occasions, stubLedger{},
		f.dispatcher, tokens,
		usecase.StoreInfo{ShopName: "Bloom Flowers", UnsubscribeURL: "http://localhost/unsub"},
		time.UTC,
		zap.NewNop(),
	)
	h := NewReminderHandler(uc, nil, zap.NewNop())

	r := chi.NewRouter()
	r.Route("/api/v1/reminders", func(r chi.Router) {
		r.Get("/settings", h.GetSettings)
		r.Patch("/settings", h.UpdateSettings)
		r.Get("/history", h.History)
		r.Post("/send-test", h.SendTest)
		r.Post("/checkout", h.CreateCheckoutOccasion)
		r.Post("/", h.CreateOccasion)
		r.Get("/customers/{customerID}", h.ListCustomerOccasions)
		r.Delete("/{id}", h.DeactivateOccasion)
		r.Get("/unsubscribe", h.Unsubscribe)
	})
	f.router = r
	return f
}

func (f *handlerFixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestGetSettings(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do(t, http.MethodGet, "/api/v1/reminders/settings", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status string                  `json:"status"`
		Data   domain.ReminderSettings `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, []int{7, 1}, resp.Data.ReminderDays)
	assert.False(t, resp.Data.BirthdayEnabled)
}

func TestUpdateSettings(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do(t, http.MethodPatch, "/api/v1/reminders/settings", `{"birthdayEnabled":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, f.settings.settings.BirthdayEnabled)

	rec = f.do(t, http.MethodPatch, "/api/v1/reminders/settings", `{bad json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendTestEndpoint(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/reminders/send-test", `{"email":"admin@example.com","type":"birthday"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, f.dispatcher.reqs, 1)
	// Lowercase type from the client maps to the canonical constant, and the
	// omitted lead time defaults to a week out.
	assert.Equal(t, notifier.TypeBirthdayReminder, f.dispatcher.reqs[0].Type)
	assert.Contains(t, f.dispatcher.reqs[0].Data.HTML, "is in 7 days")

	rec = f.do(t, http.MethodPost, "/api/v1/reminders/send-test", `{"type":"birthday"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOccasionLifecycle(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/reminders/",
		`{"customerId":"cust-1","occasion":"mothers_day","deliveryDate":"2026-05-10","recipientName":"Alex"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		Data domain.OccasionReminder `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "MOTHERS_DAY", created.Data.Occasion)
	assert.Equal(t, 5, created.Data.Month)
	assert.Equal(t, 10, created.Data.Day)

	rec = f.do(t, http.MethodGet, "/api/v1/reminders/customers/cust-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed struct {
		Data []domain.OccasionReminder `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed.Data, 1)

	rec = f.do(t, http.MethodDelete, "/api/v1/reminders/"+created.Data.ID, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/v1/reminders/"+created.Data.ID+"-missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateOccasionValidation(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/reminders/", `{"occasion":"BIRTHDAY","deliveryDate":"2026-05-10"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/v1/reminders/", `{"customerId":"cust-1","deliveryDate":"not-a-date"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutOccasionUnknownCustomer(t *testing.T) {
	f := newHandlerFixture(t)

	rec := f.do(t, http.MethodPost, "/api/v1/reminders/checkout",
		`{"customerId":"ghost","customerEmail":"ghost@example.com","occasion":"BIRTHDAY","deliveryDate":"2026-05-10"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUnsubscribeEndpoint(t *testing.T) {
	f := newHandlerFixture(t)

	tok, err := f.tokens.Sign("cust-1", token.TypeBirthday, "")
	require.NoError(t, err)

	rec := f.do(t, http.MethodGet, "/api/v1/reminders/unsubscribe?token="+tok, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "You are unsubscribed")
	assert.Equal(t, []string{"cust-1"}, f.calendar.birthdayOptOut)

	rec = f.do(t, http.MethodGet, "/api/v1/reminders/unsubscribe?token=garbage", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid")

	rec = f.do(t, http.MethodGet, "/api/v1/reminders/unsubscribe", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
