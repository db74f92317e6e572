package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9-]+`)
	repeatedDash = regexp.MustCompile(`-{2,}`)
)

// Slugify turns a title into a lowercase ASCII URL segment.
func Slugify(s string) string {
	stripAccents := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(stripAccents, s)
	if err != nil {
		result = s
	}

	result = strings.ToLower(strings.TrimSpace(result))
	result = strings.NewReplacer(" ", "-", "_", "-", "&", "-and-").Replace(result)
	result = nonSlugChars.ReplaceAllString(result, "")
	result = repeatedDash.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}
