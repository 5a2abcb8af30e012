package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"reminder-service/internal/config"
	hrest "reminder-service/internal/handler/http"
	"reminder-service/internal/repository"
	"reminder-service/internal/router"
	"reminder-service/internal/usecase"
	"reminder-service/internal/worker"
	"reminder-service/pkg/notifier"
	"reminder-service/pkg/token"
)

// NewServer wires every dependency and returns the HTTP server plus the
// cron worker, which the caller starts and stops around the server's
// lifetime.
func NewServer(cfg config.AppConfig, logger *zap.Logger) (*http.Server, *worker.ReminderWorker) {
	// --- DB connection + schema ---
	dbpool, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := repository.EnsureSchema(ctx, dbpool); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}

	// --- Repos ---
	settingsRepo := repository.NewSettingsRepo(dbpool)
	calendarRepo := repository.NewCalendarRepo(dbpool)
	occasionRepo := repository.NewOccasionRepo(dbpool)
	ledgerRepo := repository.NewLedgerRepo(dbpool)

	// --- Redis (run lock) ---
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       0,
	})

	// --- Token service (fails closed in production without a secret) ---
	tokens, err := token.NewService(cfg.UnsubscribeSecret, cfg.AppEnv, logger)
	if err != nil {
		log.Fatalf("failed to init unsubscribe tokens: %v", err)
	}

	// --- Channel senders + dispatcher ---
	emailSender := notifier.NewSMTPSender(notifier.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		FromName: cfg.FromName,
	}, logger)
	smsSender := notifier.NewHTTPSMSSender(notifier.SMSConfig{
		BaseURL:       cfg.SMSBaseURL,
		APIKey:        cfg.SMSAPIKey,
		SenderID:      cfg.SMSSenderID,
		SigningSecret: cfg.SMSSignSecret,
	}, logger)
	dispatcher := notifier.New(emailSender, smsSender, logger)

	// --- Reference timezone ---
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("invalid REMINDER_TZ %q: %v", cfg.Timezone, err)
	}

	// --- Usecase ---
	uc := usecase.NewReminderUsecase(
		settingsRepo,
		calendarRepo,
		occasionRepo,
		ledgerRepo,
		dispatcher,
		tokens,
		usecase.StoreInfo{
			ShopName:       cfg.ShopName,
			ShopURL:        cfg.ShopURL,
			LogoURL:        cfg.LogoURL,
			StoreAddress:   cfg.StoreAddress,
			StorePhone:     cfg.StorePhone,
			StoreEmail:     cfg.StoreEmail,
			UnsubscribeURL: cfg.UnsubscribeBaseURL,
		},
		loc,
		logger,
	)

	// --- Cron worker ---
	w := worker.NewReminderWorker(uc, rdb, cfg.CronSpec, loc, logger)

	// --- Handlers + routes ---
	restHandler := hrest.NewReminderHandler(uc, w, logger)

	r := chi.NewRouter()
	router.SetupRoutes(r, restHandler)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	return srv, w
}
