// Package mapper converts parsed export rows into normalized sales records.
// order.go handles the shop export (format-a): rows are grouped per order and
// customer identity, country and city are reconciled across the whole group.
// positional.go handles the spreadsheet export (format-b): one row, one order.
package mapper

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/luminapress/sales-ingest/internal/domain/ingest/classifier"
	"github.com/luminapress/sales-ingest/internal/domain/ingest/dedup"
	"github.com/luminapress/sales-ingest/internal/domain/ingest/normalizer"
	"github.com/luminapress/sales-ingest/internal/domain/ingest/parser"
	"github.com/luminapress/sales-ingest/internal/domain/ingest/repository"
)

// Provenance carries the upload context stamped onto every emitted record.
type Provenance struct {
	SourceFile string
	BatchID    uuid.UUID
}

// Result is the outcome of mapping one file's rows.
type Result struct {
	Records []repository.SalesRecord
	// UnknownCustomers counts orders (format-a) or rows (format-b) whose
	// customer could not be resolved.
	UnknownCustomers int
	// SkippedRows counts rows dropped before grouping, e.g. shop rows
	// without an order key.
	SkippedRows int
}

// shopField is one candidate column for a resolved order attribute. The
// slices below are the authoritative fallback order: column priority wins
// over row order across the whole group.
type shopField struct {
	label string
	value func(parser.ShopRow) string
}

// Company columns are checked before person-name columns: a company anywhere
// in the group beats a person name on an earlier row.
var customerPriority = []shopField{
	{"billing company", func(r parser.ShopRow) string { return r.BillingCompany }},
	{"shipping company", func(r parser.ShopRow) string { return r.ShippingCompany }},
	{"billing name", func(r parser.ShopRow) string { return r.BillingName }},
	{"shipping name", func(r parser.ShopRow) string { return r.ShippingName }},
}

var countryPriority = []shopField{
	{"billing country", func(r parser.ShopRow) string { return r.BillingCountry }},
	{"shipping country", func(r parser.ShopRow) string { return r.ShippingCountry }},
}

var cityPriority = []shopField{
	{"billing city", func(r parser.ShopRow) string { return r.BillingCity }},
	{"shipping city", func(r parser.ShopRow) string { return r.ShippingCity }},
}

type orderGroup struct {
	key  string
	rows []parser.ShopRow
}

// MapShopExport groups shop-export rows by order key and emits one normalized
// record per retained line item. Rows must be passed in file order; group
// resolution depends on a stable scan order.
func MapShopExport(rows []parser.ShopRow, aliases *normalizer.AliasResolver, prov Provenance) Result {
	var result Result

	groups := make(map[string]*orderGroup)
	var order []string

	for _, row := range rows {
		key := strings.TrimSpace(row.Name)
		if key == "" {
			result.SkippedRows++
			continue
		}
		g, ok := groups[key]
		if !ok {
			g = &orderGroup{key: key}
			groups[key] = g
			order = append(order, key)
		}
		g.rows = append(g.rows, row)
	}

	for _, key := range order {
		g := groups[key]

		customer, ok := resolveCustomer(g.rows, aliases)
		if !ok {
			result.UnknownCustomers++
		}
		country := resolveLocation(g.rows, countryPriority)
		city := resolveLocation(g.rows, cityPriority)

		for _, row := range g.rows {
			title := strings.TrimSpace(row.LineItemName)
			qtyRaw := strings.TrimSpace(row.LineItemQty)
			if title == "" || qtyRaw == "" {
				continue
			}

			quantity := parseQuantity(qtyRaw)
			total := lineTotal(row.LineItemPrice, quantity)

			var itemCode *string
			if sku := strings.TrimSpace(row.LineItemSKU); sku != "" {
				itemCode = &sku
			}

			result.Records = append(result.Records, repository.SalesRecord{
				ID:             uuid.New(),
				OrderDate:      parseOrderDate(row.CreatedAt),
				CustomerName:   customer,
				Title:          title,
				ItemCode:       itemCode,
				Quantity:       quantity,
				Total:          total,
				Country:        country,
				City:           city,
				OrderReference: g.key,
				LineIdentifier: dedup.LineIdentifier(g.key, title, deref(itemCode), quantity, total),
				SourceFile:     prov.SourceFile,
				SourceRow:      row.RowNum,
				UploadBatchID:  prov.BatchID,
				DataType:       classifier.FormatA,
			})
		}
	}

	return result
}

// resolveCustomer walks the candidate columns in priority order across the
// whole group. The first candidate that survives cleaning wins and freezes
// the identity; later candidates are ignored.
func resolveCustomer(rows []parser.ShopRow, aliases *normalizer.AliasResolver) (string, bool) {
	for _, field := range customerPriority {
		for _, row := range rows {
			raw := field.value(row)
			if strings.TrimSpace(raw) == "" {
				continue
			}
			if cleaned := normalizer.NormalizeCustomerName(raw); cleaned != "" {
				return aliases.Resolve(cleaned), true
			}
		}
	}
	return repository.SentinelUnknownCustomer, false
}

// resolveLocation returns the first non-empty candidate by column priority,
// defaulting to the unknown sentinel.
func resolveLocation(rows []parser.ShopRow, priority []shopField) string {
	for _, field := range priority {
		for _, row := range rows {
			if v := strings.TrimSpace(field.value(row)); v != "" {
				return v
			}
		}
	}
	return repository.SentinelUnknown
}

// parseQuantity returns the non-negative integer quantity, 0 when the value
// is unparseable or negative.
func parseQuantity(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// lineTotal computes unit price x quantity, 0 when the price is unparseable.
func lineTotal(priceRaw string, quantity int) decimal.Decimal {
	price, err := decimal.NewFromString(strings.TrimSpace(priceRaw))
	if err != nil {
		return decimal.Zero
	}
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
