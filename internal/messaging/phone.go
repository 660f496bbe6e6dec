package messaging

import "strings"

// minPhoneDigits is the floor for a dialable number; anything shorter is
// treated as malformed and never handed to a provider.
const minPhoneDigits = 9

// sanitizePhone strips everything but digits.
func sanitizePhone(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeE164 ensures the value begins with + and only contains digits afterward.
func NormalizeE164(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	digits := sanitizePhone(value)
	if digits == "" {
		return ""
	}
	return "+" + digits
}

// ValidPhone reports whether the value normalizes to a plausibly dialable
// E.164 number.
func ValidPhone(value string) bool {
	return len(sanitizePhone(value)) >= minPhoneDigits
}
