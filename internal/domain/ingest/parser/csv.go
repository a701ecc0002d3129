// Package parser turns raw upload bytes into ordered row sequences.
// csv.go reads the delimited shop export (one row per line item, header
// labels trusted); excel.go reads the spreadsheet export (positional columns,
// header labels not trusted).
package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
)

var (
	ErrEmptyFile  = errors.New("file is empty")
	ErrNoDataRows = errors.New("no data rows after header")
)

// ShopRow is one line-item row of the shop export. gocsv matches fields by
// header label, so column order in the file does not matter. Order header
// fields (customer, country, city) are repeated on every row of an order.
type ShopRow struct {
	Name            string `csv:"Name"`
	CreatedAt       string `csv:"Created at"`
	LineItemName    string `csv:"Lineitem name"`
	LineItemQty     string `csv:"Lineitem quantity"`
	LineItemPrice   string `csv:"Lineitem price"`
	LineItemSKU     string `csv:"Lineitem sku"`
	BillingName     string `csv:"Billing Name"`
	BillingCompany  string `csv:"Billing Company"`
	BillingCity     string `csv:"Billing City"`
	BillingCountry  string `csv:"Billing Country"`
	ShippingName    string `csv:"Shipping Name"`
	ShippingCompany string `csv:"Shipping Company"`
	ShippingCity    string `csv:"Shipping City"`
	ShippingCountry string `csv:"Shipping Country"`

	// RowNum is the 1-based line number in the original file, counting the
	// header line (first data row = 2). Set after parsing, not read from the
	// file.
	RowNum int `csv:"-"`
}

func init() {
	// Shop exports wrap fields containing the delimiter in double quotes and
	// occasionally carry stray quotes inside values.
	gocsv.SetCSVReader(func(in io.Reader) gocsv.CSVReader {
		r := csv.NewReader(in)
		r.LazyQuotes = true
		r.TrimLeadingSpace = true
		r.FieldsPerRecord = -1
		return r
	})
}

// ParseShopExport parses the delimited shop export. The first non-empty line
// is the header; every following non-empty line is a data row. Returns
// ErrEmptyFile for empty input and ErrNoDataRows when only a header is
// present.
func ParseShopExport(data []byte) ([]ShopRow, error) {
	data = stripUTF8BOM(data)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}

	var rows []ShopRow
	if err := gocsv.UnmarshalBytes(data, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil, ErrEmptyFile
		}
		return nil, fmt.Errorf("parse shop export: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrNoDataRows
	}

	for i := range rows {
		rows[i].RowNum = i + 2
	}
	return rows, nil
}

func stripUTF8BOM(data []byte) []byte {
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return data[3:]
	}
	return data
}
