// Package testdata generates realistic sales-export fixtures using gofakeit.
package testdata

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Generator produces upload payloads in both supported export formats.
type Generator struct {
	faker *gofakeit.Faker
}

// NewGenerator creates a generator with a specific seed for reproducibility.
func NewGenerator(seed int64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

var sampleTitles = []string{
	"The Silent Orchard",
	"Maps of Nowhere",
	"A Field Guide to Rain",
	"Harbour Lights",
	"The Last Cartographer",
	"Winter Correspondence",
	"Notes from the Estuary",
	"The Glasshouse Year",
}

// shopExportRow mirrors the delimited export's column layout.
type shopExportRow struct {
	Name            string `csv:"Name"`
	CreatedAt       string `csv:"Created at"`
	LineitemName    string `csv:"Lineitem name"`
	LineitemQty     string `csv:"Lineitem quantity"`
	LineitemPrice   string `csv:"Lineitem price"`
	LineitemSKU     string `csv:"Lineitem sku"`
	BillingName     string `csv:"Billing Name"`
	BillingCompany  string `csv:"Billing Company"`
	BillingCity     string `csv:"Billing City"`
	BillingCountry  string `csv:"Billing Country"`
	ShippingName    string `csv:"Shipping Name"`
	ShippingCompany string `csv:"Shipping Company"`
	ShippingCity    string `csv:"Shipping City"`
	ShippingCountry string `csv:"Shipping Country"`
}

// ShopExport renders a delimited shop export with the given number of
// orders, each carrying linesPerOrder line items. Header fields repeat on
// every row of an order, matching how the shop platform exports them.
func (g *Generator) ShopExport(orders, linesPerOrder int) ([]byte, error) {
	rows := make([]shopExportRow, 0, orders*linesPerOrder)

	for o := 0; o < orders; o++ {
		orderRef := fmt.Sprintf("#%d", 1001+o)
		created := g.faker.DateRange(time.Now().AddDate(0, -3, 0), time.Now())
		person := g.faker.Name()
		company := ""
		if g.faker.Bool() {
			company = g.faker.Company()
		}
		city := g.faker.City()
		country := g.faker.Country()

		for l := 0; l < linesPerOrder; l++ {
			// Titles rotate so an order never repeats a line item and the
			// generated file carries no accidental duplicate keys.
			price := decimal.NewFromFloat(g.faker.Float64Range(5, 80)).Round(2)
			rows = append(rows, shopExportRow{
				Name:            orderRef,
				CreatedAt:       created.Format("2006-01-02 15:04:05 -0700"),
				LineitemName:    sampleTitles[(o+l)%len(sampleTitles)],
				LineitemQty:     strconv.Itoa(g.faker.Number(1, 5)),
				LineitemPrice:   price.String(),
				LineitemSKU:     g.faker.DigitN(8),
				BillingName:     person,
				BillingCompany:  company,
				BillingCity:     city,
				BillingCountry:  country,
				ShippingName:    person,
				ShippingCompany: company,
				ShippingCity:    city,
				ShippingCountry: country,
			})
		}
	}

	out, err := gocsv.MarshalBytes(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to render shop export: %w", err)
	}
	return out, nil
}

// SheetExport renders a spreadsheet export with one order per row in the
// positional column layout: date, customer number, customer name, title,
// item code, quantity, total, order reference.
func (g *Generator) SheetExport(rows int) ([]byte, error) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	header := []any{"Date", "Cust No", "Customer", "Title", "Code", "Qty", "Total", "Order Ref"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write sheet header: %w", err)
	}

	for i := 0; i < rows; i++ {
		qty := g.faker.Number(1, 20)
		total := decimal.NewFromFloat(g.faker.Float64Range(10, 400)).Round(2)
		row := []any{
			g.faker.DateRange(time.Now().AddDate(0, -3, 0), time.Now()).Format("2006-01-02"),
			g.faker.DigitN(5),
			g.faker.Company(),
			g.Title(),
			g.faker.DigitN(8),
			strconv.Itoa(qty),
			total.String(),
			fmt.Sprintf("SO-%s", g.faker.DigitN(6)),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write sheet row: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to render sheet export: %w", err)
	}
	return buf.Bytes(), nil
}

// Title returns a random title from a fixed catalogue.
func (g *Generator) Title() string {
	return sampleTitles[g.faker.Number(0, len(sampleTitles)-1)]
}
