package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, defaultWebhookBase+"/dashboard-data", cfg.DashboardWebhookURL)
	assert.Equal(t, defaultWebhookBase+"/islem-ekle", cfg.TransactionWebhookURL)
	assert.Equal(t, defaultWebhookBase+"/chatbot", cfg.ChatbotWebhookURL)
	assert.Equal(t, 10*time.Second, cfg.WebhookTimeout)
	assert.Equal(t, 5*time.Minute, cfg.RefreshInterval)
	assert.True(t, cfg.MockAuthEnabled, "mock auth defaults on outside release mode")
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("N8N_DASHBOARD_WEBHOOK", "http://localhost:5678/webhook/dashboard-data")
	t.Setenv("WEBHOOK_TIMEOUT_SECONDS", "30")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "http://localhost:5678/webhook/dashboard-data", cfg.DashboardWebhookURL)
	assert.Equal(t, 30*time.Second, cfg.WebhookTimeout)
}

func TestGetDuration_BadValues(t *testing.T) {
	t.Setenv("WEBHOOK_TIMEOUT_SECONDS", "not-a-number")
	assert.Equal(t, 10*time.Second, getDuration("WEBHOOK_TIMEOUT_SECONDS", 10*time.Second))

	t.Setenv("WEBHOOK_TIMEOUT_SECONDS", "-5")
	assert.Equal(t, 10*time.Second, getDuration("WEBHOOK_TIMEOUT_SECONDS", 10*time.Second))
}
