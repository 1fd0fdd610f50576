package planner

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Percent is a percentage value, e.g. Percent(30) is 30%.
type Percent float64

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

// Rate returns the percentage as a decimal fraction, e.g. Percent(30).Rate() is 0.3.
func (p Percent) Rate() decimal.Decimal {
	return decimal.NewFromFloat(float64(p) / 100)
}

// Factor returns the multiplicative growth factor 1+p/100.
func (p Percent) Factor() decimal.Decimal {
	return decimal.NewFromInt(1).Add(p.Rate())
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", float64(p))
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", float64(p))
	if res == "+0.00%" {
		return "-"
	}
	return res
}
