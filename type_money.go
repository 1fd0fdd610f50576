package planner

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// gbp is the single reporting currency of the planner.
var gbp = *money.New(0, money.GBP).Currency()

// Money represents a monetary value in pounds sterling.
type Money struct {
	value decimal.Decimal // as major unit value
}

func M[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Money {
	return Money{value: newDecimal(value)}
}

// String returns the string representation of the money value.
func (m Money) String() string {
	dec := m.value.Round(int32(gbp.Fraction)).Shift(int32(gbp.Fraction))
	return gbp.Formatter().Format(dec.IntPart())
}

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as a "-"
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) IsPositive() bool                { return m.value.IsPositive() }
func (m Money) IsNegative() bool                { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool           { return m.value.LessThan(n.value) }
func (m Money) LessThanOrEqual(n Money) bool    { return m.value.LessThanOrEqual(n.value) }
func (m Money) GreaterThan(n Money) bool        { return m.value.GreaterThan(n.value) }
func (m Money) GreaterThanOrEqual(n Money) bool { return m.value.GreaterThanOrEqual(n.value) }
func (m Money) Neg() Money                      { return Money{value: m.value.Neg()} }

// binary operators.
func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value)} }

func (m Money) Mul(n Quantity) Money       { return Money{value: m.value.Mul(n.value)} }
func (m Money) MulPercent(p Percent) Money { return Money{value: m.value.Mul(p.Rate())} }

// Div divides by a quantity. A zero divisor yields zero money, never a panic:
// the engines favour numeric degradation over propagation.
func (m Money) Div(n Quantity) Money {
	if n.IsZero() {
		return Money{}
	}
	return Money{value: m.value.Div(n.value)}
}

// DivPrice returns how many units m buys at unit price n. Zero price yields zero.
func (m Money) DivPrice(n Money) Quantity {
	if n.IsZero() {
		return Quantity{}
	}
	return Quantity{value: m.value.Div(n.value)}
}

// Ratio returns m/n as a bare decimal, zero when n is zero.
func (m Money) Ratio(n Money) decimal.Decimal {
	if n.IsZero() {
		return decimal.Zero
	}
	return m.value.Div(n.value)
}

// Round returns the value rounded to the nearest whole pound.
func (m Money) Round() Money { return Money{value: m.value.Round(0)} }

// Min returns the smaller of m and n.
func (m Money) Min(n Money) Money {
	if m.LessThan(n) {
		return m
	}
	return n
}

// Max returns the larger of m and n.
func (m Money) Max(n Money) Money {
	if m.GreaterThan(n) {
		return m
	}
	return n
}

// FloorZero clamps negative values to zero.
func (m Money) FloorZero() Money {
	if m.IsNegative() {
		return Money{}
	}
	return m
}

// Decimal exposes the underlying decimal value.
func (m Money) Decimal() decimal.Decimal { return m.value }

func (m Money) MarshalJSON() ([]byte, error) {
	return m.value.Round(int32(gbp.Fraction)).MarshalJSON()
}

func (m *Money) UnmarshalJSON(bytes []byte) error {
	return m.value.UnmarshalJSON(bytes)
}
