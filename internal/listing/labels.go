package listing

import (
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencySymbol prefixes every price label.
const CurrencySymbol = "₹"

// PriceLabel renders a price with digit grouping, e.g. ₹9,500,000.
// Printers and casers keep per-call state, so each call builds its own.
func PriceLabel(price float64) string {
	return CurrencySymbol + message.NewPrinter(language.English).Sprintf("%d", int64(math.Round(price)))
}

// TypeLabel renders a listing type for display, e.g. "Rental House".
func TypeLabel(t Type) string {
	if t == "" {
		return NotAvailable
	}
	return cases.Title(language.English).String(strings.ReplaceAll(string(t), "-", " "))
}

// AddressLine joins the known parts of a location, skipping unset ones.
func AddressLine(loc Location) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{loc.Address, loc.City, loc.State} {
		if p != "" && p != NotAvailable {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return NotAvailable
	}
	return strings.Join(parts, ", ")
}
