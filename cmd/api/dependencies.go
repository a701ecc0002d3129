package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/luminapress/sales-ingest/internal/domain/ingest/handler"
	"github.com/luminapress/sales-ingest/internal/domain/ingest/normalizer"
	"github.com/luminapress/sales-ingest/internal/domain/ingest/repository"
	"github.com/luminapress/sales-ingest/internal/domain/ingest/service"
	"github.com/luminapress/sales-ingest/internal/domain/reporting"
	"github.com/luminapress/sales-ingest/pkg/config"
	"github.com/luminapress/sales-ingest/pkg/cron"
	"github.com/luminapress/sales-ingest/pkg/db"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	DB     *db.DB
	Logger *slog.Logger

	// Repositories
	RecordStore   repository.RecordStore
	AliasStore    *normalizer.AliasStore
	ReportingRepo *reporting.Repository

	// Services
	IngestService *service.Service
	Scheduler     *cron.Scheduler

	// Handlers
	UploadHandler *handler.UploadHandler
	AliasHandler  *handler.AliasHandler
	ReportHandler *handler.ReportHandler
}

// NewDependencies initializes the full dependency graph.
func NewDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}

	deps.initRepositories()

	if err := deps.initServices(); err != nil {
		return nil, fmt.Errorf("failed to init services: %w", err)
	}

	deps.initHandlers()

	logger.Info("all dependencies initialized successfully")

	return deps, nil
}

// initDatabase initializes the database connection and runs migrations
func (d *Dependencies) initDatabase() error {
	database, err := db.New(db.Config{
		DSN:             d.Config.Database.DSN(),
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 10 * time.Minute,
	}, d.Logger)
	if err != nil {
		return err
	}

	d.DB = database

	if err := d.DB.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.Logger.Info("database connected and migrations completed successfully")
	return nil
}

func (d *Dependencies) initRepositories() {
	d.RecordStore = repository.NewPostgresRecordStore(d.DB.Pool)
	d.AliasStore = normalizer.NewAliasStore(d.DB.Pool)
	d.ReportingRepo = reporting.NewRepository(d.DB.Pool)

	d.Logger.Info("repositories initialized")
}

func (d *Dependencies) initServices() error {
	// Missing aliases must not keep the pipeline from starting. Uploads fall
	// back to raw names and the cron reload picks the map up later.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	aliases, err := d.AliasStore.LoadResolver(ctx)
	if err != nil {
		d.Logger.Warn("failed to load customer aliases, starting without", slog.Any("error", err))
		aliases = normalizer.NewAliasResolver(nil)
	}

	d.IngestService = service.New(d.RecordStore, aliases, d.Logger)
	d.Scheduler = cron.NewScheduler(d.AliasStore, d.IngestService, d.Config.Aliases.RefreshSchedule, d.Logger)

	d.Logger.Info("services initialized", slog.Int("aliases", aliases.Len()))
	return nil
}

func (d *Dependencies) initHandlers() {
	d.UploadHandler = handler.NewUploadHandler(d.IngestService, d.Config.Upload.MaxFileSizeBytes, d.Logger)
	d.AliasHandler = handler.NewAliasHandler(d.AliasStore, d.IngestService, d.Logger)
	d.ReportHandler = handler.NewReportHandler(d.ReportingRepo, d.Logger)

	d.Logger.Info("handlers initialized")
}

// Close releases held resources.
func (d *Dependencies) Close() {
	if d.Scheduler != nil {
		<-d.Scheduler.Stop().Done()
	}
	if d.DB != nil {
		d.DB.Close()
	}
}
