package service

import (
	"strings"
	"unicode"
)

// NormalizeCompanyName canonicalizes a company display name for uniqueness:
// lowercased, with whitespace and punctuation stripped.
func NormalizeCompanyName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// NormalizePlate canonicalizes a licence plate for uniqueness: uppercased,
// with all whitespace stripped. "34 abc 123" and "34ABC123" normalize to the
// same plate.
func NormalizePlate(plate string) string {
	var b strings.Builder
	for _, r := range plate {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
