package domain

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	slugPattern     = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Slugify derives a URL-safe identifier from s. Accents are folded to
// their base letter, everything is lowercased, each run of characters
// outside [a-z0-9] collapses to a single hyphen and leading or trailing
// hyphens are trimmed. The result may be empty.
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)
	return strings.Trim(nonAlphanumeric.ReplaceAllString(folded, "-"), "-")
}

// IsValidSlug reports whether s is already in canonical slug form.
func IsValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}
