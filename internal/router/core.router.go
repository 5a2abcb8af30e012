package router

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	hrest "reminder-service/internal/handler/http"
)

// SetupRoutes configures the HTTP routes for the reminder service.
func SetupRoutes(r chi.Router, h *hrest.ReminderHandler) chi.Router {
	// ---- Global Middleware ----
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-CSRF-Token",
		},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api/v1/reminders", func(r chi.Router) {
		// Admin surface
		r.Get("/settings", h.GetSettings)
		r.Patch("/settings", h.UpdateSettings)
		r.Get("/history", h.History)
		r.Get("/upcoming", h.Upcoming)
		r.Post("/send-test", h.SendTest)
		r.Post("/run", h.RunNow)

		// Customer-facing occasion reminders
		r.Post("/checkout", h.CreateCheckoutOccasion)
		r.Post("/", h.CreateOccasion)
		r.Get("/customers/{customerID}", h.ListCustomerOccasions)
		r.Delete("/{id}", h.DeactivateOccasion)

		// Public, token-guarded
		r.Get("/unsubscribe", h.Unsubscribe)
	})
	return r
}
