package main

import (
	"os"
	"time"

	"divination-app/config"
	"divination-app/database"
	"divination-app/internal/api/payments"
	stripewebhooks "divination-app/internal/api/stripewebhook"
	routes "divination-app/internal/app/http"
	stripeinfra "divination-app/internal/infra/stripe"
	"divination-app/internal/repository"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	setupLogging(cfg)

	db, err := database.Init(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("database init failed")
	}

	gateway := stripeinfra.NewClient(cfg.StripeSecretKey)
	handlers := &routes.Handlers{
		Payments: payments.NewHandler(gateway, repository.NewOrderRepository(db)),
		Webhook:  stripewebhooks.NewHandler(cfg.StripeWebhookSecret, repository.NewLedger(db)),
	}

	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, handlers)

	log.Info().Str("port", cfg.Port).Str("env", string(cfg.Environment)).Msg("starting server")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.LogFormat != "json" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
