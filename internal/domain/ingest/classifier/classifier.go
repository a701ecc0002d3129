// Package classifier decides which export format an uploaded sales file uses.
// Classification is a pure function of the file name and declared content type;
// it never fails and unknown inputs fall back to the spreadsheet format.
package classifier

import (
	"path/filepath"
	"strings"
)

// SourceFormat identifies the layout of an uploaded sales export.
type SourceFormat string

const (
	// FormatA is a delimited shop export: one row per purchased line item,
	// order header fields (customer, country, city) repeated on every row.
	FormatA SourceFormat = "format-a"

	// FormatB is a spreadsheet export: one row per order, fixed column
	// positions, a single header row.
	FormatB SourceFormat = "format-b"
)

// Extensions that mark a delimited text export.
var delimitedExtensions = map[string]bool{
	".csv": true,
	".tsv": true,
	".txt": true,
}

// Content types that mark a delimited text export.
var delimitedContentTypes = map[string]bool{
	"text/csv":                  true,
	"text/tab-separated-values": true,
	"text/plain":                true,
}

// shopVendorToken appears in the file names the web shop generates.
const shopVendorToken = "shopify"

// Detect classifies a file as FormatA or FormatB. Delimited text extensions,
// delimited content types, and shop-vendor file names mean FormatA; everything
// else, including unknown extensions, is treated as FormatB.
func Detect(filename, contentType string) SourceFormat {
	name := strings.ToLower(strings.TrimSpace(filename))

	if delimitedExtensions[filepath.Ext(name)] {
		return FormatA
	}
	if strings.Contains(name, shopVendorToken) {
		return FormatA
	}

	ct := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = strings.TrimSpace(ct[:i])
	}
	if delimitedContentTypes[ct] {
		return FormatA
	}

	return FormatB
}
