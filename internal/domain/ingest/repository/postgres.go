package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/google/uuid"
)

// Querier is the subset of pgxpool.Pool the store needs. pgxmock satisfies it
// in tests.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRecordStore implements RecordStore on the sales_records table.
type PostgresRecordStore struct {
	db Querier
}

// NewPostgresRecordStore creates a new PostgreSQL record store.
func NewPostgresRecordStore(db Querier) *PostgresRecordStore {
	return &PostgresRecordStore{db: db}
}

// Exists reports whether a record with the given compound natural key is
// already stored. A null item_code compares as the empty string.
func (s *PostgresRecordStore) Exists(ctx context.Context, orderRef, title, itemCode string, quantity int, total decimal.Decimal) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM sales_records
			WHERE order_reference = $1
			  AND title = $2
			  AND COALESCE(item_code, '') = $3
			  AND quantity = $4
			  AND total = $5
		)
	`

	var exists bool
	err := s.db.QueryRow(ctx, query, orderRef, title, itemCode, quantity, total).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check sales record existence: %w", err)
	}
	return exists, nil
}

// Insert stores one normalized record. The unique index on the compound
// natural key is the second line of defense against concurrent uploads:
// a conflict surfaces as ErrDuplicateRecord, never as a partial write.
func (s *PostgresRecordStore) Insert(ctx context.Context, record *SalesRecord) error {
	query := `
		INSERT INTO sales_records (
			id, order_date, customer_name, title, item_code, quantity, total,
			country, city, order_reference, line_identifier,
			source_file, source_row, upload_batch_id, data_type
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (order_reference, title, (COALESCE(item_code, '')), quantity, total)
		DO NOTHING
		RETURNING created_at
	`

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	err := s.db.QueryRow(ctx, query,
		record.ID,
		record.OrderDate,
		record.CustomerName,
		record.Title,
		record.ItemCode,
		record.Quantity,
		record.Total,
		record.Country,
		record.City,
		record.OrderReference,
		record.LineIdentifier,
		record.SourceFile,
		record.SourceRow,
		record.UploadBatchID,
		string(record.DataType),
	).Scan(&record.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		// DO NOTHING swallowed the row: the key already exists.
		return ErrDuplicateRecord
	}
	if err != nil {
		return fmt.Errorf("insert sales record: %w", err)
	}
	return nil
}
