package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// PriceDecimals is the number of fractional digits carried by a Price.
	PriceDecimals = 5
	// PriceScale is 10^PriceDecimals.
	PriceScale = 100000
	// MaxPriceIntDigits bounds the integer part of a price (7.5 format).
	MaxPriceIntDigits = 7
)

var maxPriceIntPart = decimal.New(1, MaxPriceIntDigits)

// Price is a fixed-point price in units of 1e-5.
// Never build one from a float: 5-digit decimals are not exact in binary.
type Price int64

// NewPrice builds a price from its integer and fractional (0..99999) parts.
func NewPrice(units int64, frac int64) Price {
	return Price(units*PriceScale + frac)
}

// String formats the price with exactly five fractional digits.
func (p Price) String() string {
	sign := ""
	v := int64(p)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%05d", sign, v/PriceScale, v%PriceScale)
}

// ParsePrice parses a price token. The value must be positive, have at most
// seven integer digits and be exactly representable with five decimals.
// Only plain digits with an optional fraction are accepted: no sign, no exponent.
func ParsePrice(token string) (Price, error) {
	if err := checkPriceShape(token); err != nil {
		return 0, err
	}
	d, err := decimal.NewFromString(token)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPrice, err)
	}
	return PriceFromDecimal(d)
}

// checkPriceShape enforces <1-7 digits>[.<digits>] before any decimal
// arithmetic runs, so exponents can never force a huge rescale.
func checkPriceShape(token string) error {
	intPart, frac, hasDot := strings.Cut(token, ".")
	switch {
	case intPart == "":
		return fmt.Errorf("%w: %q has no integer digits", ErrInvalidPrice, token)
	case len(intPart) > MaxPriceIntDigits:
		return fmt.Errorf("%w: %q has more than %d integer digits", ErrInvalidPrice, token, MaxPriceIntDigits)
	case hasDot && frac == "":
		return fmt.Errorf("%w: %q has an empty fraction", ErrInvalidPrice, token)
	case strings.IndexFunc(intPart, notDigit) >= 0 || strings.IndexFunc(frac, notDigit) >= 0:
		return fmt.Errorf("%w: %q is not a plain decimal", ErrInvalidPrice, token)
	}
	return nil
}

func notDigit(r rune) bool {
	return r < '0' || r > '9'
}

// PriceFromDecimal converts an exact decimal into a Price, applying the same
// rules as ParsePrice.
func PriceFromDecimal(d decimal.Decimal) (Price, error) {
	if !d.IsPositive() {
		return 0, fmt.Errorf("%w: %s is not positive", ErrInvalidPrice, d.String())
	}
	if d.Truncate(0).GreaterThanOrEqual(maxPriceIntPart) {
		return 0, fmt.Errorf("%w: %s has more than %d integer digits", ErrInvalidPrice, d.String(), MaxPriceIntDigits)
	}
	scaled := d.Shift(PriceDecimals)
	if !scaled.IsInteger() {
		return 0, fmt.Errorf("%w: %s has more than %d decimals", ErrInvalidPrice, d.String(), PriceDecimals)
	}
	return Price(scaled.IntPart()), nil
}

// MustParsePrice is ParsePrice for literals in tests and fixtures.
func MustParsePrice(token string) Price {
	p, err := ParsePrice(token)
	if err != nil {
		panic(err)
	}
	return p
}
