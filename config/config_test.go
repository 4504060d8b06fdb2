package config

import (
	"testing"

	"divination-app/internal/domain/entitlement"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/divination_test")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_123")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, Sandbox, cfg.Environment)
	assert.Equal(t, entitlement.PerUse, cfg.PricingMode)
	assert.NotEmpty(t, cfg.DivinationEndpoint)
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/divination_test")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownEnvironment(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "staging")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_ENV")
}

func TestLoadRejectsUnknownPricingMode(t *testing.T) {
	setRequired(t)
	t.Setenv("PRICING_MODE", "per_click")

	_, err := Load()
	assert.Error(t, err)
}
