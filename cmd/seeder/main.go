package main

import (
	"context"
	"os"
	"time"

	"artistforms/internal/config"
	"artistforms/internal/seed"
	"artistforms/internal/storage"
	"artistforms/internal/storage/providers"

	"github.com/spf13/pflag"
)

func main() {
	var seedPath, databaseURL string
	pflag.StringVar(&seedPath, "seed", "./seeds/root_templates.yaml", "root template seed file")
	pflag.StringVar(&databaseURL, "database_url", os.Getenv("DATABASE_URL"), "database URL")
	pflag.Parse()

	log := config.NewLogger(config.LogConfig{Level: "info", Format: "text"})

	seeds, err := seed.Load(seedPath)
	if err != nil {
		log.WithError(err).Fatal("read seed file")
	}

	db, err := storage.InitDB(databaseURL, 1, log)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	inserted, err := seed.Apply(context.Background(), providers.NewFormTemplateProvider(db), seeds, time.Now().UTC(), log)
	if err != nil {
		log.WithError(err).Fatal("seeding failed")
	}
	log.WithField("inserted", inserted).Info("seeding finished")
}
