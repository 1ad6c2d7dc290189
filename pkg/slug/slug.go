// Package slug turns free text into URL-safe identifiers.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	multipleDashes  = regexp.MustCompile(`-+`)
	validSlug       = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Make converts s to a lowercase kebab-case slug.
// "Hello, World!" -> "hello-world", "Crème Brûlée" -> "creme-brulee".
// Input without any ASCII letters or digits yields "".
func Make(s string) string {
	// decompose accents so the base letter survives the ASCII filter
	s = norm.NFKD.String(s)
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)
	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	s = multipleDashes.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Truncate shortens a slug to at most max bytes, cutting at a dash when possible.
func Truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	s = s[:max]
	if i := strings.LastIndexByte(s, '-'); i > 0 {
		s = s[:i]
	}
	return strings.Trim(s, "-")
}

// Valid reports whether s is already a canonical slug.
func Valid(s string) bool { return validSlug.MatchString(s) }
