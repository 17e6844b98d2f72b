package utils

import "strings"

// DefaultCountryCode is prepended to bare 10-digit numbers.
const DefaultCountryCode = "+91"

// NormalizePhone canonicalizes a raw phone input: strips every non-digit,
// then prefixes the default country code for bare 10-digit numbers. Numbers
// already carrying a country code keep it. Idempotent: normalizing an
// already-normalized number returns it unchanged.
func NormalizePhone(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	if d == "" {
		return ""
	}
	if len(d) == 10 {
		return DefaultCountryCode + d
	}
	return "+" + d
}
