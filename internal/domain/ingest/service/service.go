// Package service orchestrates the ingestion pipeline: classify, parse,
// normalize, deduplicate, insert.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/luminapress/sales-ingest/internal/domain/ingest/classifier"
	"github.com/luminapress/sales-ingest/internal/domain/ingest/mapper"
	"github.com/luminapress/sales-ingest/internal/domain/ingest/normalizer"
	"github.com/luminapress/sales-ingest/internal/domain/ingest/parser"
	"github.com/luminapress/sales-ingest/internal/domain/ingest/repository"
)

// IngestResult is the per-file summary returned to the upload caller.
type IngestResult struct {
	Inserted         []repository.SalesRecord `json:"inserted"`
	Skipped          int                      `json:"skipped"`
	UnknownCustomers int                      `json:"unknownCustomers"`
	DataType         classifier.SourceFormat  `json:"dataType"`
}

// Service runs the ingestion pipeline. Files are processed synchronously and
// rows strictly in input order; the record store is the only shared mutable
// resource, so concurrent uploads are safe without in-pipeline locking.
type Service struct {
	store  repository.RecordStore
	logger *slog.Logger
	layout mapper.SheetLayout
	tracer trace.Tracer

	mu      sync.RWMutex
	aliases *normalizer.AliasResolver
}

// New creates an ingestion service. aliases may be nil when no alias map is
// configured.
func New(store repository.RecordStore, aliases *normalizer.AliasResolver, logger *slog.Logger) *Service {
	return &Service{
		store:   store,
		aliases: aliases,
		logger:  logger,
		layout:  mapper.DefaultSheetLayout(),
		tracer:  otel.Tracer("sales-ingest/ingest"),
	}
}

// SetAliases swaps in a freshly loaded alias resolver. Called by the alias
// refresh job so runtime alias edits apply without a restart.
func (s *Service) SetAliases(r *normalizer.AliasResolver) {
	s.mu.Lock()
	s.aliases = r
	s.mu.Unlock()
}

func (s *Service) resolver() *normalizer.AliasResolver {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.aliases
}

// ProcessFile ingests one uploaded sales export. Malformed input (empty file,
// unreadable workbook) fails the whole upload; every row-level defect is
// recovered by defaulting or skipping. Store failures on individual records
// are logged and skipped so one bad record never aborts the file.
func (s *Service) ProcessFile(ctx context.Context, filename, contentType string, data []byte, batchID uuid.UUID) (*IngestResult, error) {
	ctx, span := s.tracer.Start(ctx, "ingest.ProcessFile",
		trace.WithAttributes(
			attribute.String("file.name", filename),
			attribute.Int("file.size", len(data)),
		))
	defer span.End()

	format := classifier.Detect(filename, contentType)
	span.SetAttributes(attribute.String("file.format", string(format)))

	prov := mapper.Provenance{SourceFile: filename, BatchID: batchID}

	var mapped mapper.Result
	switch format {
	case classifier.FormatA:
		rows, err := parser.ParseShopExport(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", filename, err)
		}
		mapped = mapper.MapShopExport(rows, s.resolver(), prov)
	default:
		rows, err := parser.ParseSheetExport(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", filename, err)
		}
		mapped = mapper.MapSheetExport(rows, s.layout, s.resolver(), prov)
	}

	if mapped.SkippedRows > 0 {
		s.logger.Warn("rows dropped for missing order key",
			slog.String("file", filename),
			slog.Int("rows", mapped.SkippedRows),
		)
	}

	result := &IngestResult{
		Inserted:         make([]repository.SalesRecord, 0, len(mapped.Records)),
		UnknownCustomers: mapped.UnknownCustomers,
		DataType:         format,
	}

	for i := range mapped.Records {
		record := &mapped.Records[i]
		outcome := s.insertRecord(ctx, record)
		switch outcome {
		case outcomeInserted:
			result.Inserted = append(result.Inserted, *record)
		case outcomeDuplicate:
			result.Skipped++
		}
		observeRecord(format, outcome)
	}
	observeUnknownCustomers(format, mapped.UnknownCustomers)

	s.logger.Info("file ingested",
		slog.String("file", filename),
		slog.String("format", string(format)),
		slog.String("batch", batchID.String()),
		slog.Int("inserted", len(result.Inserted)),
		slog.Int("skipped", result.Skipped),
		slog.Int("unknownCustomers", result.UnknownCustomers),
	)

	return result, nil
}

type recordOutcome string

const (
	outcomeInserted  recordOutcome = "inserted"
	outcomeDuplicate recordOutcome = "duplicate"
	outcomeError     recordOutcome = "error"
)

// insertRecord performs the existence check and the guarded insert for one
// candidate record. A constraint violation raced in by a concurrent upload is
// treated exactly like a pre-detected duplicate.
func (s *Service) insertRecord(ctx context.Context, record *repository.SalesRecord) recordOutcome {
	exists, err := s.store.Exists(ctx,
		record.OrderReference, record.Title, record.ItemCodeOrEmpty(),
		record.Quantity, record.Total,
	)
	if err != nil {
		s.logger.Error("existence check failed, dropping record",
			slog.String("order", record.OrderReference),
			slog.Int("row", record.SourceRow),
			slog.Any("error", err),
		)
		return outcomeError
	}
	if exists {
		return outcomeDuplicate
	}

	if err := s.store.Insert(ctx, record); err != nil {
		if errors.Is(err, repository.ErrDuplicateRecord) {
			return outcomeDuplicate
		}
		s.logger.Error("insert failed, dropping record",
			slog.String("order", record.OrderReference),
			slog.Int("row", record.SourceRow),
			slog.Any("error", err),
		)
		return outcomeError
	}
	return outcomeInserted
}
