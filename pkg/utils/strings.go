package utils

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var multiHyphen = regexp.MustCompile("-+")

// NormalizeCityName lowercases, strips diacritics and drops everything
// outside [a-z0-9], whitespace and hyphen. Runs of whitespace collapse to
// one space. e.g. "Dakar-Médina" -> "dakar-medina"
func NormalizeCityName(input string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, strings.ToLower(input))
	if err != nil {
		s = strings.ToLower(input)
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// GenerateSlug converts a string into a URL-friendly slug.
// e.g. "Boubou Brodé Thiès!" -> "boubou-brode-thies"
func GenerateSlug(input string) string {
	s := strings.ReplaceAll(NormalizeCityName(input), " ", "-")
	s = multiHyphen.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ParseInt parses a string to int with a fallback default value
func ParseInt(s string, defaultVal int) int {
	if s == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return val
}
