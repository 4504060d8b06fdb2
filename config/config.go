package config

import (
	"fmt"

	"divination-app/internal/domain/entitlement"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Environment selects whether the simulated confirmation path is reachable.
// Sandbox is the only mode in which a payment may be simulated.
type Environment string

const (
	Production Environment = "production"
	Sandbox    Environment = "sandbox"
)

type Config struct {
	Port        string      `env:"PORT" envDefault:"8080"`
	Environment Environment `env:"APP_ENV" envDefault:"sandbox"`
	CORSOrigin  string      `env:"CORS_ORIGIN" envDefault:"*"`
	DatabaseURL string      `env:"DB_URL,required,notEmpty"`

	StripeSecretKey     string `env:"STRIPE_SECRET_KEY,required,notEmpty"`
	StripeWebhookSecret string `env:"STRIPE_WEBHOOK_SECRET,required,notEmpty"`

	PricingMode        entitlement.Mode `env:"PRICING_MODE" envDefault:"per_use"`
	DivinationEndpoint string           `env:"DIVINATION_ENDPOINT" envDefault:"https://curly-butterfly-895b.stevenyu-supreme.workers.dev/api/divination"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// Load reads .env (if present) and parses the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found, using system environment variables")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	switch cfg.Environment {
	case Production, Sandbox:
	default:
		return nil, fmt.Errorf("invalid APP_ENV %q (want production or sandbox)", cfg.Environment)
	}
	switch cfg.PricingMode {
	case entitlement.PerUse, entitlement.Unlimited:
	default:
		return nil, fmt.Errorf("invalid PRICING_MODE %q (want per_use or unlimited)", cfg.PricingMode)
	}

	return cfg, nil
}
