package scheduler

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type ReconciliationSource interface {
	ClaimReconciliations(ctx context.Context, limit int) ([]string, error)
}

type ArtistReconciler interface {
	ReconcileArtistServices(ctx context.Context, artistID string) ([]int64, error)
}

// ReconcileScheduler drains the reconciliation outbox. Every failure is
// logged and dropped; a claimed request is never retried.
type ReconcileScheduler struct {
	source     ReconciliationSource
	reconciler ArtistReconciler
	interval   time.Duration
	batch      int
	log        logrus.FieldLogger
}

func NewReconcileScheduler(source ReconciliationSource, reconciler ArtistReconciler, interval time.Duration, batch int, log logrus.FieldLogger) *ReconcileScheduler {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if batch <= 0 {
		batch = 50
	}
	return &ReconcileScheduler{
		source:     source,
		reconciler: reconciler,
		interval:   interval,
		batch:      batch,
		log:        log,
	}
}

func (s *ReconcileScheduler) Start(ctx context.Context) {
	if s.source == nil || s.reconciler == nil {
		s.log.Warn("reconcile scheduler skipped: no outbox configured")
		return
	}
	ticker := time.NewTicker(s.interval)
	go func() {
		defer ticker.Stop()
		s.run(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.run(ctx)
			}
		}
	}()
}

func (s *ReconcileScheduler) run(ctx context.Context) {
	for ctx.Err() == nil {
		artistIDs, err := s.source.ClaimReconciliations(ctx, s.batch)
		if err != nil {
			s.log.WithError(err).Error("claim reconciliations failed")
			return
		}
		s.reconcile(ctx, artistIDs)
		if len(artistIDs) < s.batch {
			return
		}
	}
}

func (s *ReconcileScheduler) reconcile(ctx context.Context, artistIDs []string) {
	done := make(map[string]struct{}, len(artistIDs))
	for _, artistID := range artistIDs {
		if _, ok := done[artistID]; ok {
			continue
		}
		done[artistID] = struct{}{}

		removed, err := s.reconciler.ReconcileArtistServices(ctx, artistID)
		if err != nil {
			s.log.WithError(err).WithField("artist_id", artistID).Error("service reconciliation failed")
			continue
		}
		if len(removed) > 0 {
			s.log.WithFields(logrus.Fields{"artist_id": artistID, "removed": len(removed)}).Info("artist services reconciled")
		}
	}
}
