// Package dedup builds the deterministic identity key that guards against
// double ingestion of the same sales line.
package dedup

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// LineIdentifier derives the denormalized line key from the compound natural
// key (order reference, title, item code, quantity, total). It must stay
// consistent with the uniqueness constraint the record store enforces on the
// same tuple: identical inputs always produce identical keys, and any
// differing input produces a different key.
func LineIdentifier(orderRef, title, itemCode string, quantity int, total decimal.Decimal) string {
	parts := []string{
		orderRef,
		NormalizeAlnumLower(title),
		NormalizeAlnum(itemCode),
		strconv.Itoa(quantity),
		total.String(),
	}
	return strings.Join(parts, "-")
}

// NormalizeAlnum strips every non-alphanumeric rune.
func NormalizeAlnum(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// NormalizeAlnumLower strips every non-alphanumeric rune and lower-cases the
// rest.
func NormalizeAlnumLower(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, s)
}
