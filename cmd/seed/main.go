package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"contact-agenda-go/internal/config"
	"contact-agenda-go/internal/database"
	"contact-agenda-go/internal/logging"
	"contact-agenda-go/internal/seed"
	"contact-agenda-go/internal/store"
)

func main() {
	_ = godotenv.Load(".env")

	cfg := config.Load()
	n := flag.Int("n", cfg.SeedContacts, "number of contacts to generate")
	flag.Parse()

	log := logging.New(cfg.AppEnv, cfg.LogLevel)

	db, err := database.Initialize(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("database initialization failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	seeder := seed.NewSeeder(store.New(db), seed.NewGenerator(cfg.SeedRandom), log)
	created, err := seeder.Run(ctx, *n)
	if err != nil {
		log.WithError(err).Fatal("seeding failed")
	}
	log.WithField("contacts", created).Info("done")
}
