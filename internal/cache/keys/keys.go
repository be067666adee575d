// Package keys builds result cache keys from request bodies.
package keys

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
)

const prefix = "geocombine:v1"

// Key returns the cache key for body under op (e.g. "combine", "families").
// Bodies that differ only in insignificant JSON whitespace share a key.
func Key(op string, body []byte) string {
	norm := normalizeBody(body)
	sum := xxhash.Sum64(norm)
	return fmt.Sprintf("%s:%s:n=%d:h=%016x", prefix, sanitizeForKey(strings.TrimSpace(op)), len(norm), sum)
}

func normalizeBody(body []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(len(body))
	if err := json.Compact(&buf, body); err != nil {
		return bytes.TrimSpace(body)
	}
	return buf.Bytes()
}

func sanitizeForKey(s string) string {
	if s == "" {
		return "_"
	}
	var b strings.Builder
	b.Grow(len(s))

	var prev rune
	for _, r := range s {
		out := rune(0)
		switch {
		case unicode.IsSpace(r):
			out = '_'
		case isAlphaNum(r) || r == '_' || r == '-':
			out = r
		default:
			// Any other rune (including non-ASCII and ':') becomes '-'
			out = '-'
		}
		if (out == '_' || out == '-') && out == prev {
			continue
		}
		b.WriteRune(out)
		prev = out
	}
	return b.String()
}

func isAlphaNum(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
