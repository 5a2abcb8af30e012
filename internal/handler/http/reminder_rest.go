package httphandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"reminder-service/internal/domain"
	"reminder-service/internal/repository"
	"reminder-service/internal/usecase"
	"reminder-service/internal/worker"
	"reminder-service/pkg/response"
)

type ReminderHandler struct {
	uc     *usecase.ReminderUsecase
	worker *worker.ReminderWorker
	logger *zap.Logger
}

func NewReminderHandler(uc *usecase.ReminderUsecase, w *worker.ReminderWorker, logger *zap.Logger) *ReminderHandler {
	return &ReminderHandler{
		uc:     uc,
		worker: w,
		logger: logger,
	}
}

// ----------------------
// Settings
// ----------------------

func (h *ReminderHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.uc.Settings(r.Context())
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to fetch reminder settings")
		return
	}
	response.JSON(w, http.StatusOK, settings)
}

func (h *ReminderHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var patch domain.SettingsPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.uc.UpdateSettings(r.Context(), patch)
	if err != nil {
		h.logger.Error("settings update failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "Failed to update reminder settings")
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

// ----------------------
// History / upcoming
// ----------------------

func (h *ReminderHandler) History(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	items, total, err := h.uc.History(r.Context(), page, pageSize)
	if err != nil {
		h.logger.Error("history query failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "Failed to fetch reminder history")
		return
	}
	response.JSON(w, http.StatusOK, map[string]any{
		"items":    items,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

func (h *ReminderHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))

	items, err := h.uc.Upcoming(r.Context(), days)
	if err != nil {
		h.logger.Error("upcoming query failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "Failed to fetch upcoming reminders")
		return
	}
	response.JSON(w, http.StatusOK, map[string]any{
		"count": len(items),
		"items": items,
	})
}

// ----------------------
// Test send / manual run
// ----------------------

func (h *ReminderHandler) SendTest(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email      string `json:"email"`
		Type       string `json:"type"`
		DaysBefore int    `json:"daysBefore"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if body.Email == "" {
		response.Error(w, http.StatusBadRequest, "Email is required")
		return
	}
	if body.DaysBefore == 0 {
		body.DaysBefore = 7
	}

	typ := domain.ReminderType(strings.ToUpper(body.Type))
	if err := h.uc.SendTest(r.Context(), body.Email, typ, body.DaysBefore); err != nil {
		h.logger.Warn("test reminder failed", zap.String("email", body.Email), zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "Failed to send test reminder email")
		return
	}
	response.JSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *ReminderHandler) RunNow(w http.ResponseWriter, r *http.Request) {
	summary := h.worker.RunNow(r.Context())
	response.JSON(w, http.StatusOK, summary)
}

// ----------------------
// Occasion reminders
// ----------------------

type occasionRequest struct {
	CustomerID    string  `json:"customerId"`
	CustomerEmail string  `json:"customerEmail"`
	Occasion      string  `json:"occasion"`
	DeliveryDate  string  `json:"deliveryDate"`
	RecipientName *string `json:"recipientName"`
	Note          *string `json:"note"`
}

func (req occasionRequest) params() usecase.CreateOccasionParams {
	return usecase.CreateOccasionParams{
		Occasion:      req.Occasion,
		DeliveryDate:  req.DeliveryDate,
		RecipientName: req.RecipientName,
		Note:          req.Note,
	}
}

func (h *ReminderHandler) CreateCheckoutOccasion(w http.ResponseWriter, r *http.Request) {
	var req occasionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.uc.CreateCheckoutOccasion(r.Context(), req.CustomerID, req.CustomerEmail, req.params())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(w, http.StatusNotFound, "Customer not found for reminder creation")
			return
		}
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *ReminderHandler) CreateOccasion(w http.ResponseWriter, r *http.Request) {
	var req occasionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CustomerID == "" {
		response.Error(w, http.StatusBadRequest, "customerId is required")
		return
	}

	created, err := h.uc.CreateOccasion(r.Context(), req.CustomerID, req.params())
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *ReminderHandler) ListCustomerOccasions(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerID")

	items, err := h.uc.ListOccasions(r.Context(), customerID)
	if err != nil {
		h.logger.Error("occasion list failed", zap.Error(err))
		response.Error(w, http.StatusInternalServerError, "Failed to fetch reminders")
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *ReminderHandler) DeactivateOccasion(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.uc.DeactivateOccasion(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			response.Error(w, http.StatusNotFound, "Reminder not found")
			return
		}
		response.Error(w, http.StatusInternalServerError, "Failed to delete reminder")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ----------------------
// Unsubscribe (public)
// ----------------------

const unsubscribeOKPage = `<html>
  <body style="font-family: Arial, sans-serif; padding: 24px; max-width: 560px; margin: 0 auto;">
    <h1 style="margin-bottom: 12px;">You are unsubscribed</h1>
    <p style="line-height: 1.6; color: #4b5563;">
      Your reminder preference has been updated successfully.
    </p>
  </body>
</html>`

const unsubscribeErrPage = `<html>
  <body style="font-family: Arial, sans-serif; padding: 24px; max-width: 560px; margin: 0 auto;">
    <h1 style="margin-bottom: 12px;">Unsubscribe link is invalid</h1>
    <p style="line-height: 1.6; color: #4b5563;">
      This link is missing or expired. Please contact the shop to update your reminder preferences.
    </p>
  </body>
</html>`

// Unsubscribe is the public redemption endpoint. The signed token is its
// only security boundary; any verification or store failure renders the
// error page rather than a stack trace.
func (h *ReminderHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	tok := r.URL.Query().Get("token")
	if tok == "" {
		response.HTML(w, http.StatusBadRequest, unsubscribeErrPage)
		return
	}

	if err := h.uc.Redeem(r.Context(), tok); err != nil {
		h.logger.Warn("unsubscribe redemption failed", zap.Error(err))
		response.HTML(w, http.StatusBadRequest, unsubscribeErrPage)
		return
	}
	response.HTML(w, http.StatusOK, unsubscribeOKPage)
}
