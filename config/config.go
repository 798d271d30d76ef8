package config

import (
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// ============================================================================
// CONFIGURATION
// ============================================================================
// Everything comes from env vars with the same fallbacks the deployed
// instance relies on. godotenv loading happens in main.
// ============================================================================

const defaultWebhookBase = "https://n8n.globaltripmarket.com/webhook"

type Config struct {
	Port        string
	FrontendURL string

	// n8n webhook endpoints. The automation platform owns NL parsing and
	// persistence; we only talk to these three URLs.
	DashboardWebhookURL   string
	TransactionWebhookURL string
	ChatbotWebhookURL     string

	WebhookTimeout  time.Duration
	RefreshInterval time.Duration

	// Dev-only mock auth (admin/admin, user/user). Forced off in release
	// mode unless ENABLE_MOCK_AUTH is set explicitly.
	MockAuthEnabled bool
	SessionSecret   string

	// Optional: user management / activity audit store. Empty means the
	// admin API is disabled, everything else still works.
	DatabaseURL string
}

func Load() *Config {
	cfg := &Config{
		Port:                  getEnv("PORT", "8080"),
		FrontendURL:           getEnv("FRONTEND_URL", "http://localhost:3000"),
		DashboardWebhookURL:   getEnv("N8N_DASHBOARD_WEBHOOK", defaultWebhookBase+"/dashboard-data"),
		TransactionWebhookURL: getEnv("N8N_TRANSACTION_WEBHOOK", defaultWebhookBase+"/islem-ekle"),
		ChatbotWebhookURL:     getEnv("N8N_CHATBOT_WEBHOOK", defaultWebhookBase+"/chatbot"),
		WebhookTimeout:        getDuration("WEBHOOK_TIMEOUT_SECONDS", 10*time.Second),
		RefreshInterval:       getDuration("REFRESH_INTERVAL_SECONDS", 5*time.Minute),
		SessionSecret:         getEnv("SESSION_SECRET", "dev-session-secret"),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
	}

	if gin.Mode() == gin.ReleaseMode {
		cfg.MockAuthEnabled = os.Getenv("ENABLE_MOCK_AUTH") == "true"
	} else {
		cfg.MockAuthEnabled = true
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return fallback
	}
	return time.Duration(secs) * time.Second
}
