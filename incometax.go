package planner

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PensionMethod is how a pension contribution is taken from pay.
type PensionMethod string

const (
	// SalarySacrifice reduces gross pay before income tax and NI.
	SalarySacrifice PensionMethod = "salary_sacrifice"
	// ReliefAtSource is paid from net pay; the basic-rate band is extended
	// by the contribution instead.
	ReliefAtSource PensionMethod = "relief_at_source"
)

// ParsePensionMethod parses a pension method from its string form.
func ParsePensionMethod(s string) (PensionMethod, error) {
	switch PensionMethod(s) {
	case SalarySacrifice, ReliefAtSource:
		return PensionMethod(s), nil
	default:
		return "", fmt.Errorf("unknown pension method %q", s)
	}
}

// IncomeTaxResult is the breakdown of one person's income tax position.
type IncomeTaxResult struct {
	Gross             Money         `json:"gross"`
	Pension           Money         `json:"pension,omitempty"`
	Method            PensionMethod `json:"method,omitempty"`
	PersonalAllowance Money         `json:"personalAllowance"`
	TaxableIncome     Money         `json:"taxableIncome"`
	Tax               Money         `json:"tax"`
	NI                Money         `json:"ni"`
	TakeHome          Money         `json:"takeHome"`
}

// taperedAllowance returns the personal allowance after the £1-per-£2
// reduction above the taper threshold. Adjusted income is gross minus pension
// contributions for both methods, matching HMRC's adjusted net income.
func taperedAllowance(gross, pension Money, c TaxConstants) Money {
	adjusted := gross.Sub(pension).FloorZero()
	if adjusted.LessThanOrEqual(c.TaperThreshold) {
		return c.PersonalAllowance
	}
	excess := adjusted.Sub(c.TaperThreshold)
	reduction := Money{value: excess.Decimal().Mul(c.TaperRate)}
	return c.PersonalAllowance.Sub(reduction).FloorZero()
}

// CalculateIncomeTax computes UK income tax on annual gross pay with a
// pension contribution taken by the given method.
func CalculateIncomeTax(gross, pension Money, method PensionMethod, c TaxConstants) IncomeTaxResult {
	allowance := taperedAllowance(gross, pension, c)

	pay := gross
	if method == SalarySacrifice {
		pay = gross.Sub(pension).FloorZero()
	}
	taxable := pay.Sub(allowance).FloorZero()

	basicBand := c.BasicRateLimit.Sub(c.PersonalAllowance)
	if method == ReliefAtSource {
		basicBand = basicBand.Add(pension)
	}
	higherBand := c.HigherRateLimit.Sub(c.BasicRateLimit)

	tax := bandTax(taxable.Min(basicBand), c.BasicRate)
	tax = tax.Add(bandTax(taxable.Sub(basicBand).FloorZero().Min(higherBand), c.HigherRate))
	tax = tax.Add(bandTax(taxable.Sub(basicBand).Sub(higherBand).FloorZero(), c.AdditionalRate))

	ni := CalculateNI(gross, pension, method, c)

	return IncomeTaxResult{
		Gross:             gross,
		Pension:           pension,
		Method:            method,
		PersonalAllowance: allowance,
		TaxableIncome:     taxable,
		Tax:               tax,
		NI:                ni,
		TakeHome:          gross.Sub(pension).Sub(tax).Sub(ni),
	}
}

func bandTax(amount Money, rate decimal.Decimal) Money {
	return Money{value: amount.Decimal().Mul(rate)}
}

// CalculateNI computes employee National Insurance on annual gross pay.
// Salary-sacrifice contributions reduce NI-able pay; relief-at-source ones
// do not.
func CalculateNI(gross, pension Money, method PensionMethod, c TaxConstants) Money {
	pay := gross
	if method == SalarySacrifice {
		pay = gross.Sub(pension).FloorZero()
	}
	main := pay.Min(c.NIUpperLimit).Sub(c.NIPrimaryThreshold).FloorZero()
	upper := pay.Sub(c.NIUpperLimit).FloorZero()
	return bandTax(main, c.NIMainRate).Add(bandTax(upper, c.NIUpperRate))
}

// TakeHome returns annual pay after pension, income tax and NI.
func TakeHome(gross, pension Money, method PensionMethod, c TaxConstants) Money {
	return CalculateIncomeTax(gross, pension, method, c).TakeHome
}

// MarginalSaving returns the tax plus NI saved by adding extra pension
// contribution on top of an existing one, computed as with minus without.
func MarginalSaving(gross, pension, extra Money, method PensionMethod, c TaxConstants) Money {
	without := CalculateIncomeTax(gross, pension, method, c)
	with := CalculateIncomeTax(gross, pension.Add(extra), method, c)
	return without.Tax.Add(without.NI).Sub(with.Tax).Sub(with.NI)
}
