// Package repository defines the normalized sales-line record and the record
// store the ingestion pipeline writes through.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/luminapress/sales-ingest/internal/domain/ingest/classifier"
)

// Sentinel values used when a real customer or location cannot be resolved.
const (
	SentinelUnknown         = "Unknown"
	SentinelUnknownCustomer = "Unknown Customer"
)

// ErrDuplicateRecord is returned by Insert when the store's uniqueness
// constraint on (order_reference, title, item_code, quantity, total) rejects
// the record. The pipeline treats it exactly like a pre-detected duplicate.
var ErrDuplicateRecord = errors.New("sales record already exists")

// SalesRecord is the canonical normalized sales line.
type SalesRecord struct {
	ID             uuid.UUID               `json:"id"`
	OrderDate      time.Time               `json:"order_date"`
	CustomerName   string                  `json:"customer_name"`
	Title          string                  `json:"title"`
	ItemCode       *string                 `json:"item_code,omitempty"`
	Quantity       int                     `json:"quantity"`
	Total          decimal.Decimal         `json:"total"`
	Country        string                  `json:"country"`
	City           string                  `json:"city"`
	OrderReference string                  `json:"order_reference"`
	LineIdentifier string                  `json:"line_identifier"`
	SourceFile     string                  `json:"source_file"`
	SourceRow      int                     `json:"source_row"`
	UploadBatchID  uuid.UUID               `json:"upload_batch_id"`
	DataType       classifier.SourceFormat `json:"data_type"`
	CreatedAt      time.Time               `json:"created_at"`
}

// ItemCodeOrEmpty returns the item code with nil mapped to "", the form used
// by the duplicate key.
func (r *SalesRecord) ItemCodeOrEmpty() string {
	if r.ItemCode == nil {
		return ""
	}
	return *r.ItemCode
}

// RecordStore is the single external collaborator of the ingestion pipeline.
// Exists and Insert share one uniqueness contract: the compound natural key
// (order_reference, title, item_code-or-empty, quantity, total). Insert must
// be atomic with that constraint so concurrent uploads cannot race past the
// existence check.
type RecordStore interface {
	Exists(ctx context.Context, orderRef, title, itemCode string, quantity int, total decimal.Decimal) (bool, error)
	Insert(ctx context.Context, record *SalesRecord) error
}
