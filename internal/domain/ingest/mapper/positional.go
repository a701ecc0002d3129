package mapper

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/luminapress/sales-ingest/internal/domain/ingest/classifier"
	"github.com/luminapress/sales-ingest/internal/domain/ingest/dedup"
	"github.com/luminapress/sales-ingest/internal/domain/ingest/normalizer"
	"github.com/luminapress/sales-ingest/internal/domain/ingest/parser"
	"github.com/luminapress/sales-ingest/internal/domain/ingest/repository"
)

// SheetLayout maps record fields to 0-based column positions in the
// spreadsheet export. The positions are configuration, not a contract with
// the vendor: any stable table works as long as it is applied uniformly.
type SheetLayout struct {
	Date           int
	CustomerNumber int
	CustomerName   int
	Title          int
	ItemCode       int
	Quantity       int
	Total          int
	// OrderReference is usually absent from these exports; when the cell is
	// empty a unique token is synthesized instead.
	OrderReference int
}

// DefaultSheetLayout is the column order of the current spreadsheet exports.
func DefaultSheetLayout() SheetLayout {
	return SheetLayout{
		Date:           0,
		CustomerNumber: 1,
		CustomerName:   2,
		Title:          3,
		ItemCode:       4,
		Quantity:       5,
		Total:          6,
		OrderReference: 7,
	}
}

// MapSheetExport maps each spreadsheet row 1:1 to a normalized record.
//
// Customer names here deliberately skip the full cleaning pipeline: the
// spreadsheet export carries trusted customer master data, unlike the
// free-text shop fields. Only alias resolution and the Unknown default apply.
func MapSheetExport(rows []parser.SheetRow, layout SheetLayout, aliases *normalizer.AliasResolver, prov Provenance) Result {
	var result Result

	for _, row := range rows {
		name := row.Cell(layout.CustomerName)
		if name == "" {
			name = repository.SentinelUnknown
			result.UnknownCustomers++
		} else {
			name = aliases.Resolve(name)
		}

		title := row.Cell(layout.Title)
		quantity := parseQuantity(row.Cell(layout.Quantity))
		total := parseTotal(row.Cell(layout.Total))

		var itemCode *string
		if code := row.Cell(layout.ItemCode); code != "" {
			itemCode = &code
		}

		orderRef := row.Cell(layout.OrderReference)
		if orderRef == "" {
			// Every row must stay insertable even without a real reference.
			orderRef = fmt.Sprintf("B%d-%d", row.Num, time.Now().UnixNano())
		}

		result.Records = append(result.Records, repository.SalesRecord{
			ID:             uuid.New(),
			OrderDate:      parseOrderDate(row.Cell(layout.Date)),
			CustomerName:   name,
			Title:          title,
			ItemCode:       itemCode,
			Quantity:       quantity,
			Total:          total,
			Country:        repository.SentinelUnknown,
			City:           repository.SentinelUnknown,
			OrderReference: orderRef,
			LineIdentifier: dedup.LineIdentifier(orderRef, title, deref(itemCode), quantity, total),
			SourceFile:     prov.SourceFile,
			SourceRow:      row.Num,
			UploadBatchID:  prov.BatchID,
			DataType:       classifier.FormatB,
		})
	}

	return result
}

// parseTotal reads an amount written directly in the file, 0 when
// unparseable.
func parseTotal(raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero
	}
	total, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return total
}
