package validate

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// Uzbek mobile numbers: +998 then 9 digits.
	rePhone = regexp.MustCompile(`^\+?998[0-9]{9}$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reLogin = regexp.MustCompile(`^[a-z0-9_.-]{3,32}$`)
)

func Phone(s string) (string, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if !rePhone.MatchString(s) {
		return "", false
	}
	if !strings.HasPrefix(s, "+") {
		s = "+" + s
	}
	return s, true
}

func Address(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 300 {
		return "", false
	}
	return s, true
}

// ID validates a simple resource identifier (product/category/order ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

func Login(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	return s, reLogin.MatchString(s)
}

// Name validates a displayable name with a reasonable max length.
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 60 {
		return "", false
	}
	return s, true
}

// Qty parses a decimal quantity; fractional values are legal for weight-based
// units. Clamped to a sane ceiling to avoid abuse.
func Qty(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.Sign() <= 0 {
		return decimal.Zero, false
	}
	if d.GreaterThan(decimal.NewFromInt(1000)) {
		return decimal.Zero, false
	}
	return d, true
}
