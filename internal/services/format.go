package services

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nairaPrinter = message.NewPrinter(language.English)
)

// normalizeEmail is the stored form of an email address. Accounts, vendor
// requests and admin bootstrap lists all compare on it.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// FormatNaira renders an amount the way prices are shown to users, e.g. ₦45,000.
func FormatNaira(amount decimal.Decimal) string {
	return "₦" + nairaPrinter.Sprint(number.Decimal(amount.InexactFloat64(), number.MaxFractionDigits(2)))
}
