// Package consistency implements the denormalized-data consistency protocol
// between products, orders, and customer records: signup-time customer
// resolution and merge, write-path propagation of product edits into order
// snapshots, read-path display resolution, and the order-to-customer
// fallback matching chain.
package consistency

import (
	"regexp"
	"strings"
)

var (
	nonDigitRE = regexp.MustCompile(`\D`)
	emailRE    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// NormalizePhone reduces a free-form phone number to its digits, so
// "010-1111-2222" and "01011112222" compare equal.
func NormalizePhone(phone string) string {
	return nonDigitRE.ReplaceAllString(phone, "")
}

// SamePhone reports whether two free-form phone numbers are the same number.
func SamePhone(a, b string) bool {
	return NormalizePhone(a) == NormalizePhone(b)
}

// ValidEmail reports whether s is a syntactically plausible email address.
func ValidEmail(s string) bool {
	return emailRE.MatchString(strings.TrimSpace(s))
}

// firstNonBlank returns the first argument with non-whitespace content.
func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
