package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminapress/sales-ingest/internal/domain/ingest/classifier"
	"github.com/luminapress/sales-ingest/internal/domain/ingest/normalizer"
	"github.com/luminapress/sales-ingest/internal/domain/ingest/parser"
	"github.com/luminapress/sales-ingest/internal/domain/ingest/repository"
)

// fakeStore keeps records in memory keyed by the compound natural key,
// mirroring the duplicate behavior of the real store.
type fakeStore struct {
	mu      sync.Mutex
	records map[string]repository.SalesRecord

	failInsert error
	failExists error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: make(map[string]repository.SalesRecord)}
}

func naturalKey(orderRef, title, itemCode string, quantity int, total decimal.Decimal) string {
	return fmt.Sprintf("%s|%s|%s|%d|%s", orderRef, title, itemCode, quantity, total.String())
}

func (s *fakeStore) Exists(_ context.Context, orderRef, title, itemCode string, quantity int, total decimal.Decimal) (bool, error) {
	if s.failExists != nil {
		return false, s.failExists
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.records[naturalKey(orderRef, title, itemCode, quantity, total)]
	return ok, nil
}

func (s *fakeStore) Insert(_ context.Context, record *repository.SalesRecord) error {
	if s.failInsert != nil {
		return s.failInsert
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := naturalKey(record.OrderReference, record.Title, record.ItemCodeOrEmpty(), record.Quantity, record.Total)
	if _, ok := s.records[key]; ok {
		return repository.ErrDuplicateRecord
	}
	s.records[key] = *record
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const shopCSV = `Name,Created at,Lineitem name,Lineitem quantity,Lineitem price,Lineitem sku,Billing Name,Billing Company,Billing City,Billing Country,Shipping Name,Shipping Company,Shipping City,Shipping Country
#1001,2026-01-15 10:30:00 +0000,The Silent Orchard,3,12.50,SKU-1,Jane Doe,,London,United Kingdom,Jane Doe,,London,United Kingdom
#1001,2026-01-15 10:30:00 +0000,Harbour Lights,1,9.99,SKU-2,,Acme Ltd,,,,,,
#1002,2026-01-16 09:00:00 +0000,Maps of Nowhere,2,5.00,,John Smith,,,,,,,
`

func TestService_ProcessFile_ShopExport(t *testing.T) {
	store := newFakeStore()
	svc := New(store, nil, testLogger())

	result, err := svc.ProcessFile(context.Background(), "orders_export.csv", "text/csv", []byte(shopCSV), uuid.New())
	require.NoError(t, err)

	assert.Equal(t, classifier.FormatA, result.DataType)
	assert.Len(t, result.Inserted, 3)
	assert.Equal(t, 0, result.Skipped)
	assert.Equal(t, 0, result.UnknownCustomers)
	assert.Len(t, store.records, 3)
}

func TestService_ProcessFile_SecondUploadAllDuplicates(t *testing.T) {
	store := newFakeStore()
	svc := New(store, nil, testLogger())

	first, err := svc.ProcessFile(context.Background(), "orders_export.csv", "text/csv", []byte(shopCSV), uuid.New())
	require.NoError(t, err)
	require.Len(t, first.Inserted, 3)

	second, err := svc.ProcessFile(context.Background(), "orders_export.csv", "text/csv", []byte(shopCSV), uuid.New())
	require.NoError(t, err)

	assert.Empty(t, second.Inserted)
	assert.Equal(t, 3, second.Skipped)
	assert.Len(t, store.records, 3)
}

func TestService_ProcessFile_EmptyFile(t *testing.T) {
	svc := New(newFakeStore(), nil, testLogger())

	_, err := svc.ProcessFile(context.Background(), "orders_export.csv", "text/csv", nil, uuid.New())
	assert.ErrorIs(t, err, parser.ErrEmptyFile)
}

func TestService_ProcessFile_StoreErrorDropsRecordOnly(t *testing.T) {
	store := newFakeStore()
	store.failInsert = errors.New("connection reset")
	svc := New(store, nil, testLogger())

	result, err := svc.ProcessFile(context.Background(), "orders_export.csv", "text/csv", []byte(shopCSV), uuid.New())
	require.NoError(t, err)

	// Failed records are dropped, not counted as duplicates, and the upload
	// still completes.
	assert.Empty(t, result.Inserted)
	assert.Equal(t, 0, result.Skipped)
}

func TestService_ProcessFile_ExistsErrorDropsRecordOnly(t *testing.T) {
	store := newFakeStore()
	store.failExists = errors.New("connection reset")
	svc := New(store, nil, testLogger())

	result, err := svc.ProcessFile(context.Background(), "orders_export.csv", "text/csv", []byte(shopCSV), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, result.Inserted)
}

func TestService_SetAliases(t *testing.T) {
	store := newFakeStore()
	svc := New(store, nil, testLogger())

	svc.SetAliases(normalizer.NewAliasResolver(map[string]string{"JANE DOE": "Doe Media"}))

	csv := `Name,Lineitem name,Lineitem quantity,Lineitem price,Billing Name
#1,A,1,1.00,Jane Doe
`
	result, err := svc.ProcessFile(context.Background(), "orders.csv", "text/csv", []byte(csv), uuid.New())
	require.NoError(t, err)
	require.Len(t, result.Inserted, 1)
	assert.Equal(t, "Doe Media", result.Inserted[0].CustomerName)
}
