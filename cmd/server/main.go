package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"artistforms/internal/config"
	"artistforms/internal/scheduler"
	"artistforms/internal/seed"
	"artistforms/internal/server"
	"artistforms/internal/service"
	"artistforms/internal/storage"
	"artistforms/internal/storage/memory"
	"artistforms/internal/storage/providers"
	httptransport "artistforms/internal/transport/http"
)

type backend struct {
	templates       service.FormTemplateProvider
	appointments    service.AppointmentProvider
	artists         service.ArtistProvider
	queue           service.ReconcileQueue
	reconciliations scheduler.ReconciliationSource
	close           func()
}

func main() {
	cfg := config.MustLoad()
	log := config.NewLogger(cfg.Log)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	policy, err := service.ParseResolutionPolicy(cfg.Forms.ResolutionPolicy)
	if err != nil {
		log.WithError(err).Fatal("invalid forms config")
	}

	var b backend
	switch cfg.Storage.Driver {
	case "memory":
		store := memory.New()
		log.Warn("using in-memory storage, data is lost on restart")
		if cfg.Storage.SeedPath != "" {
			seeds, err := seed.Load(cfg.Storage.SeedPath)
			if err != nil {
				log.WithError(err).Fatal("read seed file")
			}
			if _, err := seed.Apply(ctx, store, seeds, time.Now().UTC(), log); err != nil {
				log.WithError(err).Fatal("seed memory storage")
			}
		}
		b = backend{store, store, store, store, store, func() {}}
	default:
		db, err := storage.InitDB(cfg.DatabaseUrl, cfg.Storage.MaxConns, log)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to database")
		}
		all := providers.New(db)
		b = backend{
			templates:       all.FormTemplateProvider,
			appointments:    all.AppointmentProvider,
			artists:         all.ArtistProvider,
			queue:           all.ReconciliationProvider,
			reconciliations: all.ReconciliationProvider,
			close:           db.Close,
		}
	}
	defer b.close()

	formService := service.NewFormService(b.templates, b.appointments, b.queue, policy, log)
	artistService := service.NewArtistService(formService, b.artists, log)

	scheduler.NewReconcileScheduler(b.reconciliations, artistService, cfg.Forms.ReconcileInterval, cfg.Forms.ReconcileBatch, log).Start(ctx)

	router := httptransport.Router(formService, artistService, cfg, log)

	addr := ":" + cfg.Server.Port
	log.WithField("addr", addr).Info("listening")
	if err := server.Start(ctx, addr, cfg.Server.AllowedOrigins, router); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("server stopped")
	}
}
