package normalizer

import "strings"

// AliasResolver maps cleaned customer names to their configured canonical
// display names. Lookup is a case-insensitive exact match; names without an
// alias pass through unchanged. The resolver is immutable once built, so it
// is safe for concurrent use; runtime alias edits swap in a fresh resolver.
type AliasResolver struct {
	aliases map[string]string
}

// NewAliasResolver builds a resolver from raw-name -> display-name pairs.
// Keys are matched case-insensitively regardless of the casing given here.
func NewAliasResolver(aliases map[string]string) *AliasResolver {
	m := make(map[string]string, len(aliases))
	for raw, display := range aliases {
		key := strings.ToUpper(strings.TrimSpace(raw))
		if key == "" || display == "" {
			continue
		}
		m[key] = display
	}
	return &AliasResolver{aliases: m}
}

// Resolve returns the canonical display name for name, or name unchanged when
// no alias is configured.
func (r *AliasResolver) Resolve(name string) string {
	if r == nil || len(r.aliases) == 0 {
		return name
	}
	if display, ok := r.aliases[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return display
	}
	return name
}

// Len reports how many aliases are loaded.
func (r *AliasResolver) Len() int {
	if r == nil {
		return 0
	}
	return len(r.aliases)
}
