package normalization

import (
	"strings"
)

// CanonicalName normalizes a catalog skill or role name so that lookups
// and idempotent seeding agree on one spelling: lowercased, trimmed,
// inner whitespace collapsed to single hyphens.
func CanonicalName(input string) string {
	normalized := strings.ToLower(strings.TrimSpace(input))
	return strings.Join(strings.Fields(normalized), "-")
}
