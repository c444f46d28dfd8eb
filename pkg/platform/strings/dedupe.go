// Package strings holds small normalization helpers for user-supplied
// string lists.
package strings

import "strings"

// DedupeAndTrim trims whitespace, drops empties, and removes duplicates
// while preserving first-occurrence order. Paper payload lists such as
// delegated authorities pass through here before validation so "ops" and
// " ops " never count as two grants.
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
