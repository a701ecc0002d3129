package mapper

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luminapress/sales-ingest/internal/domain/ingest/classifier"
	"github.com/luminapress/sales-ingest/internal/domain/ingest/normalizer"
	"github.com/luminapress/sales-ingest/internal/domain/ingest/parser"
	"github.com/luminapress/sales-ingest/internal/domain/ingest/repository"
)

func sheetRow(num int, cells ...string) parser.SheetRow {
	return parser.SheetRow{Num: num, Cells: cells}
}

func TestMapSheetExport(t *testing.T) {
	prov := Provenance{SourceFile: "sales.xlsx", BatchID: uuid.New()}
	rows := []parser.SheetRow{
		sheetRow(2, "2026-02-01", "10001", "Acme Ltd", "Harbour Lights", "HL-01", "5", "49.95", "SO-000123"),
	}

	res := MapSheetExport(rows, DefaultSheetLayout(), nil, prov)
	require.Len(t, res.Records, 1)

	rec := res.Records[0]
	assert.Equal(t, "Acme Ltd", rec.CustomerName)
	assert.Equal(t, "Harbour Lights", rec.Title)
	require.NotNil(t, rec.ItemCode)
	assert.Equal(t, "HL-01", *rec.ItemCode)
	assert.Equal(t, 5, rec.Quantity)
	assert.Equal(t, "49.95", rec.Total.String())
	assert.Equal(t, "SO-000123", rec.OrderReference)
	assert.Equal(t, repository.SentinelUnknown, rec.Country)
	assert.Equal(t, repository.SentinelUnknown, rec.City)
	assert.Equal(t, classifier.FormatB, rec.DataType)
	assert.Equal(t, 2, rec.SourceRow)
	assert.Equal(t, 0, res.UnknownCustomers)
}

// Spreadsheet names are trusted master data: messy values that the shop-export
// pipeline would clean or reject pass through verbatim here.
func TestMapSheetExport_NoNameCleaning(t *testing.T) {
	rows := []parser.SheetRow{
		sheetRow(2, "2026-02-01", "1", "12345", "A", "", "1", "1.00", "SO-1"),
		sheetRow(3, "2026-02-01", "2", "Doe, Jane", "B", "", "1", "1.00", "SO-2"),
	}

	res := MapSheetExport(rows, DefaultSheetLayout(), nil, Provenance{BatchID: uuid.New()})
	require.Len(t, res.Records, 2)
	assert.Equal(t, "12345", res.Records[0].CustomerName)
	assert.Equal(t, "Doe, Jane", res.Records[1].CustomerName)
	assert.Equal(t, 0, res.UnknownCustomers)
}

func TestMapSheetExport_BlankNameDefaultsToUnknown(t *testing.T) {
	rows := []parser.SheetRow{
		sheetRow(2, "2026-02-01", "1", "", "A", "", "1", "1.00", "SO-1"),
	}

	res := MapSheetExport(rows, DefaultSheetLayout(), nil, Provenance{BatchID: uuid.New()})
	require.Len(t, res.Records, 1)
	assert.Equal(t, repository.SentinelUnknown, res.Records[0].CustomerName)
	assert.Equal(t, 1, res.UnknownCustomers)
}

func TestMapSheetExport_AliasApplied(t *testing.T) {
	aliases := normalizer.NewAliasResolver(map[string]string{"ACME": "Acme Ltd"})
	rows := []parser.SheetRow{
		sheetRow(2, "2026-02-01", "1", "acme", "A", "", "1", "1.00", "SO-1"),
	}

	res := MapSheetExport(rows, DefaultSheetLayout(), aliases, Provenance{BatchID: uuid.New()})
	require.Len(t, res.Records, 1)
	assert.Equal(t, "Acme Ltd", res.Records[0].CustomerName)
}

func TestMapSheetExport_SynthesizedOrderReference(t *testing.T) {
	rows := []parser.SheetRow{
		sheetRow(2, "2026-02-01", "1", "Acme", "A", "", "1", "1.00"),
		sheetRow(3, "2026-02-01", "1", "Acme", "A", "", "1", "1.00"),
	}

	res := MapSheetExport(rows, DefaultSheetLayout(), nil, Provenance{BatchID: uuid.New()})
	require.Len(t, res.Records, 2)

	assert.NotEmpty(t, res.Records[0].OrderReference)
	assert.NotEmpty(t, res.Records[1].OrderReference)
	// Identical rows stay distinct through the synthesized reference.
	assert.NotEqual(t, res.Records[0].OrderReference, res.Records[1].OrderReference)
	assert.Contains(t, res.Records[0].OrderReference, "B2-")
}

func TestMapSheetExport_DefectiveCells(t *testing.T) {
	rows := []parser.SheetRow{
		sheetRow(2, "not a date", "1", "Acme", "A", "", "minus one", "oops", "SO-1"),
	}

	res := MapSheetExport(rows, DefaultSheetLayout(), nil, Provenance{BatchID: uuid.New()})
	require.Len(t, res.Records, 1)

	rec := res.Records[0]
	assert.Equal(t, 0, rec.Quantity)
	assert.True(t, rec.Total.IsZero())
	assert.Nil(t, rec.ItemCode)
	assert.False(t, rec.OrderDate.IsZero())
}
