// Package cron provides scheduled background jobs using robfig/cron.
package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/luminapress/sales-ingest/internal/domain/ingest/normalizer"
	"github.com/luminapress/sales-ingest/internal/domain/ingest/service"
)

// Scheduler manages background scheduled jobs using robfig/cron.
type Scheduler struct {
	cron       *cron.Cron
	aliasStore *normalizer.AliasStore
	ingest     *service.Service
	schedule   string
	logger     *slog.Logger
}

// NewScheduler creates a new job scheduler. The schedule is a standard
// 5-field cron expression controlling how often the alias map is reloaded.
func NewScheduler(aliasStore *normalizer.AliasStore, ingest *service.Service, schedule string, logger *slog.Logger) *Scheduler {
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	return &Scheduler{
		cron:       c,
		aliasStore: aliasStore,
		ingest:     ingest,
		schedule:   schedule,
		logger:     logger,
	}
}

// Start begins scheduled jobs.
func (s *Scheduler) Start() error {
	// Alias reload: picks up rows written directly to customer_aliases,
	// e.g. by back-office tooling that bypasses the API.
	_, err := s.cron.AddFunc(s.schedule, s.reloadAliases)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started",
		slog.Int("jobs", len(s.cron.Entries())),
	)
	return nil
}

// Stop gracefully stops all scheduled jobs.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("cron scheduler stopping")
	return s.cron.Stop()
}

// RunNow manually triggers the alias reload (for testing/admin).
func (s *Scheduler) RunNow() {
	go s.reloadAliases()
}

func (s *Scheduler) reloadAliases() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resolver, err := s.aliasStore.LoadResolver(ctx)
	if err != nil {
		s.logger.Error("failed to reload customer aliases", slog.Any("error", err))
		return
	}

	s.ingest.SetAliases(resolver)
	s.logger.Info("customer aliases reloaded", slog.Int("aliases", resolver.Len()))
}
