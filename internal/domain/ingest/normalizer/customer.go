// Package normalizer cleans and canonicalizes customer names from sales
// exports. customer.go holds the text-cleaning pipeline, alias.go the
// canonical-name lookup, alias_store.go its database backing.
package normalizer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// CustomerNameResult is the observable outcome of cleaning one raw candidate
// name. Rejections carry a reason for diagnostics; cleaning never fails hard.
type CustomerNameResult struct {
	Original string
	Cleaned  string
	Rejected bool
	Reason   string
}

// Generic values shops put in the customer field when no real name exists.
var placeholderNames = map[string]bool{
	"customer": true,
	"guest":    true,
	"user":     true,
	"test":     true,
	"admin":    true,
	"default":  true,
}

var (
	htmlEntities = strings.NewReplacer(
		"&amp;", "&",
		"&quot;", `"`,
		"&apos;", "'",
		"&lt;", "<",
		"&gt;", ">",
	)
	curlyQuotes = strings.NewReplacer(
		"‘", "'", "’", "'", "‚", "'", "‛", "'",
		"“", `"`, "”", `"`, "„", `"`,
	)

	numericEntityRe  = regexp.MustCompile(`&#(?:x[0-9a-fA-F]+|[0-9]+);`)
	repeatedSpaceRe  = regexp.MustCompile(` {2,}`)
	careOfPrefixRe   = regexp.MustCompile(`^(?i:c/o|care of|attn:|attention:)\s*`)
	trailingNumberRe = regexp.MustCompile(`(?:\s+[0-9]+)+$`)
	streetAddressRe  = regexp.MustCompile(`^[0-9]+\s`)
)

// CleanCustomerName runs the full cleaning pipeline over one raw candidate
// name. The result is deterministic and the function has no side effects.
// Legal-entity suffixes (Ltd, Inc, GmbH, ...) are alphabetic tokens, so the
// trailing-bare-number rule never touches them.
func CleanCustomerName(raw string) CustomerNameResult {
	res := CustomerNameResult{Original: raw}

	s := strings.TrimSpace(raw)
	if s == "" {
		return rejected(res, "empty input")
	}

	s = htmlEntities.Replace(s)
	s = numericEntityRe.ReplaceAllString(s, "")
	s = curlyQuotes.Replace(s)
	s = normalizeWhitespace(s)
	s = repeatedSpaceRe.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	// Addresses and "Last, First" patterns keep only the first segment.
	if i := strings.IndexByte(s, ','); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}

	s = careOfPrefixRe.ReplaceAllString(s, "")
	s = trailingNumberRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)

	switch {
	case utf8.RuneCountInString(s) < 2:
		return rejected(res, "too short after cleaning")
	case streetAddressRe.MatchString(s):
		return rejected(res, "looks like a street address")
	case !containsLetter(s):
		return rejected(res, "no alphabetic characters")
	case placeholderNames[strings.ToLower(s)]:
		return rejected(res, "generic placeholder")
	}

	res.Cleaned = s
	return res
}

// NormalizeCustomerName is the convenience form of CleanCustomerName: the
// cleaned name, or "" when the candidate was rejected.
func NormalizeCustomerName(raw string) string {
	return CleanCustomerName(raw).Cleaned
}

func rejected(res CustomerNameResult, reason string) CustomerNameResult {
	res.Rejected = true
	res.Reason = reason
	return res
}

// normalizeWhitespace drops control characters and collapses Unicode space
// variants (NBSP, thin space, ...) to a single ASCII space.
func normalizeWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsControl(r):
			return -1
		case unicode.IsSpace(r):
			return ' '
		}
		return r
	}, s)
}

func containsLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
