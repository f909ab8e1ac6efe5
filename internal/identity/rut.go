// Package identity validates Chilean national identifiers (RUT/RUN).
package identity

import "strings"

// clean strips formatting characters and uppercases the check digit, so
// "12.345.678-5", "12345678-5" and "123456785" normalize identically.
func clean(id string) string {
	var b strings.Builder
	b.Grow(len(id))
	for _, r := range id {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == 'k' || r == 'K':
			b.WriteByte('K')
		}
	}
	return b.String()
}

// checkDigit computes the modulo-11 check digit for a numeric body.
// Digits are weighted right to left with the cyclic multipliers
// 2,3,4,5,6,7,2,3,...
func checkDigit(body string) byte {
	sum := 0
	mult := 2
	for i := len(body) - 1; i >= 0; i-- {
		sum += int(body[i]-'0') * mult
		mult++
		if mult > 7 {
			mult = 2
		}
	}
	switch rem := 11 - sum%11; rem {
	case 11:
		return '0'
	case 10:
		return 'K'
	default:
		return byte('0' + rem)
	}
}

// ValidateRUT reports whether id is a well-formed RUT/RUN with a correct
// check digit. Separators are ignored and 'k' is accepted in either case.
func ValidateRUT(id string) bool {
	s := clean(id)
	if len(s) < 2 {
		return false
	}
	body, dv := s[:len(s)-1], s[len(s)-1]
	for i := 0; i < len(body); i++ {
		if body[i] < '0' || body[i] > '9' {
			return false
		}
	}
	return checkDigit(body) == dv
}

// FormatRUT renders id in canonical form with thousands-separator dots
// in the body and a hyphen before the check digit, e.g. "12.345.678-5".
// The input is returned unchanged if it is not a valid RUT.
func FormatRUT(id string) string {
	if !ValidateRUT(id) {
		return id
	}
	s := clean(id)
	body, dv := s[:len(s)-1], s[len(s)-1]

	var b strings.Builder
	for i, c := range body {
		if i > 0 && (len(body)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}
	b.WriteByte('-')
	b.WriteByte(dv)
	return b.String()
}
