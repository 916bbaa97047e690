package utils

import (
	"fmt"
	"strings"
)

const (
	phoneMinDigits = 8
	phoneMaxDigits = 15
)

// NormalizePhone reduces an inbound phone number to "+<digits>". Non-digit
// characters are stripped, anything past 15 digits is truncated before the
// length check, and a number with fewer than 8 digits is rejected.
func NormalizePhone(raw string) (string, error) {
	var digits strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
			if digits.Len() == phoneMaxDigits {
				break
			}
		}
	}

	if digits.Len() < phoneMinDigits {
		return "", fmt.Errorf("phone must contain at least %d digits", phoneMinDigits)
	}

	return "+" + digits.String(), nil
}
