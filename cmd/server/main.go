package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"contact-agenda-go/internal/config"
	"contact-agenda-go/internal/database"
	httpserver "contact-agenda-go/internal/http"
	"contact-agenda-go/internal/identity"
	"contact-agenda-go/internal/logging"
	"contact-agenda-go/internal/media"
	"contact-agenda-go/internal/store"
)

func main() {
	_ = godotenv.Load(".env")

	cfg := config.Load()
	log := logging.New(cfg.AppEnv, cfg.LogLevel)
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Initialize(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("database initialization failed")
	}
	if err := os.MkdirAll(cfg.MediaRoot, 0o755); err != nil {
		log.WithError(err).Fatal("cannot create media root")
	}
	if cfg.AdminBearer == "" {
		log.Warn("ADMIN_BEARER is empty, admin routes are disabled")
	}

	r := httpserver.NewServer(cfg, httpserver.Deps{
		Store:  store.New(db),
		Media:  media.NewStore(cfg.MediaRoot),
		Hasher: identity.NewBcryptHasher(cfg.BcryptCost),
		Policy: identity.NewPasswordPolicy(cfg.PasswordMinLength),
		Log:    log,
	})
	log.WithField("port", cfg.Port).Info("listening")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
