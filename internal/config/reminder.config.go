package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	HTTPAddr string
	AppEnv   string

	RedisAddr string
	RedisPass string

	// Daily trigger, fixed reference timezone
	CronSpec string
	Timezone string

	UnsubscribeSecret  string
	UnsubscribeBaseURL string

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	FromName string

	SMSBaseURL    string
	SMSAPIKey     string
	SMSSenderID   string
	SMSSignSecret string

	ShopName     string
	ShopURL      string
	LogoURL      string
	StoreAddress string
	StorePhone   string
	StoreEmail   string
}

func Load() AppConfig {
	if err := godotenv.Load(); err != nil {
		log.Println("Reminders: No .env file found, relying on system env vars")
	}
	return AppConfig{
		HTTPAddr: getEnv("HTTP_ADDR", ":8017"),
		AppEnv:   getEnv("APP_ENV", "development"),

		RedisAddr: getEnv("REDIS_ADDR", "redis:6379"),
		RedisPass: getEnv("REDIS_PASS", ""),

		CronSpec: getEnv("REMINDER_CRON", "0 8 * * *"),
		Timezone: getEnv("REMINDER_TZ", "America/Vancouver"),

		UnsubscribeSecret:  getEnv("REMINDER_UNSUBSCRIBE_SECRET", ""),
		UnsubscribeBaseURL: getEnv("UNSUBSCRIBE_BASE_URL", "http://localhost:8017/api/v1/reminders/unsubscribe"),

		SMTPHost: getEnv("SMTPHost", ""),
		SMTPPort: getEnv("SMTPPort", "465"),
		SMTPUser: getEnv("SMTPUser", ""),
		SMTPPass: getEnv("SMTPPass", ""),
		FromName: getEnv("SMTP_FROM_NAME", ""),

		SMSBaseURL:    getEnv("SMS_GATEWAY_URL", ""),
		SMSAPIKey:     getEnv("SMS_API_KEY", ""),
		SMSSenderID:   getEnv("SMS_SENDER_ID", ""),
		SMSSignSecret: getEnv("SMS_SIGNING_SECRET", ""),

		ShopName:     getEnv("SHOP_NAME", "Bloom Flowers"),
		ShopURL:      getEnv("WEBSITE_BASE_URL", "http://localhost:3000"),
		LogoURL:      getEnv("SHOP_LOGO_URL", ""),
		StoreAddress: getEnv("STORE_ADDRESS", ""),
		StorePhone:   getEnv("STORE_PHONE", ""),
		StoreEmail:   getEnv("STORE_EMAIL", ""),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
