package domain

import "github.com/shopspring/decimal"

// PricePrecision is the number of fractional digits carried by every
// price, quantity and cash value in the system. All arithmetic that can
// produce extra digits (division, multiplication) must be rounded back
// to this precision before being stored or compared.
const PricePrecision = 8

// MinPrice is the smallest representable positive price. Generated
// prices are clamped here so a non-positive price can never reach
// settlement or persistence.
var MinPrice = decimal.New(1, -PricePrecision)

// Round8 rounds d to the system-wide fractional precision.
func Round8(d decimal.Decimal) decimal.Decimal {
	return d.Round(PricePrecision)
}

// MustDecimal parses s into a decimal and panics on failure. Intended
// for package-level constants and test fixtures only.
func MustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
