package planner

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Strategy selects the withdrawal ordering of a drawdown simulation.
type Strategy string

const (
	// StrategyTaxOptimal drains GIA, then ISA, then cash, and touches the
	// pension last.
	StrategyTaxOptimal Strategy = "tax_optimal"
	// StrategyProportional draws every wrapper pro rata to its balance.
	StrategyProportional Strategy = "proportional"
)

// ParseStrategy parses a strategy from its string form.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyTaxOptimal, StrategyProportional:
		return Strategy(s), nil
	default:
		return "", fmt.Errorf("unknown strategy %q", s)
	}
}

// Pots are the four wrapper balances a simulation runs over.
type Pots struct {
	Pension Money `json:"pension"`
	ISA     Money `json:"isa"`
	GIA     Money `json:"gia"`
	Cash    Money `json:"cash"`
}

// Total returns the sum of all four balances.
func (p Pots) Total() Money { return p.Pension.Add(p.ISA).Add(p.GIA).Add(p.Cash) }

// DrawdownParams are the inputs of one simulation run.
type DrawdownParams struct {
	Pots               Pots
	AnnualNeed         Money
	StatePensionAnnual Money
	StatePensionAge    int
	StartAge           int
	EndAge             int
	Growth             Percent
	Strategy           Strategy
	Constants          TaxConstants
}

// DrawdownYear is one simulated year. Each year depends only on the previous
// year's ending balances.
type DrawdownYear struct {
	Age          int   `json:"age"`
	StatePension Money `json:"statePension"`
	PensionDrawn Money `json:"pensionDrawn"`
	ISADrawn     Money `json:"isaDrawn"`
	GIADrawn     Money `json:"giaDrawn"`
	CashDrawn    Money `json:"cashDrawn"`
	TaxPaid      Money `json:"taxPaid"`
	NetIncome    Money `json:"netIncome"`
	EndBalances  Pots  `json:"endBalances"`
	Exhausted    bool  `json:"exhausted,omitempty"`
}

// TotalDrawn returns the year's gross withdrawals across all wrappers.
func (y DrawdownYear) TotalDrawn() Money {
	return y.PensionDrawn.Add(y.ISADrawn).Add(y.GIADrawn).Add(y.CashDrawn)
}

// DrawdownPlan is a full simulation outcome.
type DrawdownPlan struct {
	Strategy       Strategy       `json:"strategy"`
	Years          []DrawdownYear `json:"years"`
	TotalTax       Money          `json:"totalTax"`
	TotalNetIncome Money          `json:"totalNetIncome"`
	ExhaustionAge  *int           `json:"exhaustionAge,omitempty"`
}

// StrategyComparison is the outcome of running both strategies on identical
// inputs. TaxSaved is the proportional run's tax minus the tax-optimal run's.
type StrategyComparison struct {
	TaxOptimal   DrawdownPlan `json:"taxOptimal"`
	Proportional DrawdownPlan `json:"proportional"`
	TaxSaved     Money        `json:"taxSaved"`
}

var dec075 = decimal.NewFromFloat(0.75)
var dec050 = decimal.NewFromFloat(0.50)

// incomeTaxOn returns the income tax due on the given taxable income, with no
// pension contribution in play.
func incomeTaxOn(income Money, c TaxConstants) Money {
	return CalculateIncomeTax(income, Money{}, SalarySacrifice, c).Tax
}

// giaCGT returns the CGT on a GIA withdrawal, half of which is treated as
// gain. The rate keys off other taxable income against the basic-rate limit.
func giaCGT(drawn, otherIncome Money, c TaxConstants) (tax, taxableGain Money) {
	gain := Money{value: drawn.Decimal().Mul(dec050)}
	taxableGain = gain.Sub(c.CGTExemption).FloorZero()
	rate := c.CGTBasicRate
	if otherIncome.GreaterThan(c.BasicRateLimit) {
		rate = c.CGTHigherRate
	}
	return Money{value: taxableGain.Decimal().Mul(rate)}, taxableGain
}

// pensionTax returns the income tax on the taxed 75% of a gross pension
// withdrawal, marginal on top of the other taxable income.
func pensionTax(gross, otherIncome Money, c TaxConstants) Money {
	taxed := Money{value: gross.Decimal().Mul(dec075)}
	return incomeTaxOn(otherIncome.Add(taxed), c).Sub(incomeTaxOn(otherIncome, c))
}

// grossUpPension finds the gross pension withdrawal whose net covers the
// remaining need. It starts from need/0.75 and runs exactly three
// proportional adjustments, then clamps to the available balance. The fixed
// iteration count is part of the model, not a convergence shortcut.
func grossUpPension(need, otherIncome, balance Money, c TaxConstants) Money {
	if !need.IsPositive() || !balance.IsPositive() {
		return Money{}
	}
	gross := Money{value: need.Decimal().Div(dec075)}
	for i := 0; i < 3; i++ {
		net := gross.Sub(pensionTax(gross, otherIncome, c))
		if !net.IsPositive() {
			break
		}
		gross = Money{value: gross.Decimal().Mul(need.Ratio(net))}
	}
	return gross.Min(balance)
}

// SimulateDrawdown runs a year-by-year withdrawal simulation from StartAge to
// EndAge inclusive under the chosen strategy.
func SimulateDrawdown(p DrawdownParams) DrawdownPlan {
	plan := DrawdownPlan{Strategy: p.Strategy}
	c := p.Constants
	pots := p.Pots
	exhausted := false

	for age := p.StartAge; age <= p.EndAge; age++ {
		year := DrawdownYear{Age: age}
		if age >= p.StatePensionAge && p.StatePensionAge > 0 {
			year.StatePension = p.StatePensionAnnual
		}
		need := p.AnnualNeed.Sub(year.StatePension).FloorZero()

		var tax Money
		if p.Strategy == StrategyProportional {
			total := pots.Total()
			draw := need.Min(total)
			share := func(balance Money) Money {
				return Money{value: draw.Decimal().Mul(balance.Ratio(total))}
			}
			year.PensionDrawn = share(pots.Pension)
			year.ISADrawn = share(pots.ISA)
			year.GIADrawn = share(pots.GIA)
			year.CashDrawn = share(pots.Cash)

			cgt, taxableGain := giaCGT(year.GIADrawn, year.StatePension, c)
			tax = cgt.Add(pensionTax(year.PensionDrawn, year.StatePension.Add(taxableGain), c))
		} else {
			remaining := need

			year.GIADrawn = remaining.Min(pots.GIA)
			remaining = remaining.Sub(year.GIADrawn)
			cgt, taxableGain := giaCGT(year.GIADrawn, year.StatePension, c)
			tax = cgt

			year.ISADrawn = remaining.Min(pots.ISA)
			remaining = remaining.Sub(year.ISADrawn)
			year.CashDrawn = remaining.Min(pots.Cash)
			remaining = remaining.Sub(year.CashDrawn)

			if remaining.IsPositive() {
				otherIncome := year.StatePension.Add(taxableGain)
				year.PensionDrawn = grossUpPension(remaining, otherIncome, pots.Pension, c)
				tax = tax.Add(pensionTax(year.PensionDrawn, otherIncome, c))
			}
		}

		pots.Pension = pots.Pension.Sub(year.PensionDrawn).FloorZero()
		pots.ISA = pots.ISA.Sub(year.ISADrawn).FloorZero()
		pots.GIA = pots.GIA.Sub(year.GIADrawn).FloorZero()
		pots.Cash = pots.Cash.Sub(year.CashDrawn).FloorZero()

		if !exhausted && need.IsPositive() && !pots.Total().IsPositive() {
			exhausted = true
			a := age
			plan.ExhaustionAge = &a
		}
		year.Exhausted = exhausted

		grow := func(m Money) Money {
			return Money{value: m.Decimal().Mul(p.Growth.Factor())}.Round()
		}
		pots.Pension = grow(pots.Pension)
		pots.ISA = grow(pots.ISA)
		pots.GIA = grow(pots.GIA)
		pots.Cash = pots.Cash.Round() // cash does not grow

		year.TaxPaid = tax.Round()
		year.NetIncome = year.StatePension.Add(year.TotalDrawn()).Sub(tax).Round()
		year.PensionDrawn = year.PensionDrawn.Round()
		year.ISADrawn = year.ISADrawn.Round()
		year.GIADrawn = year.GIADrawn.Round()
		year.CashDrawn = year.CashDrawn.Round()
		year.EndBalances = pots

		plan.Years = append(plan.Years, year)
		plan.TotalTax = plan.TotalTax.Add(year.TaxPaid)
		plan.TotalNetIncome = plan.TotalNetIncome.Add(year.NetIncome)
	}
	return plan
}

// CompareDrawdownStrategies runs both strategies on identical inputs and
// reports the tax saved by the tax-optimal ordering.
func CompareDrawdownStrategies(p DrawdownParams) StrategyComparison {
	opt, prop := p, p
	opt.Strategy = StrategyTaxOptimal
	prop.Strategy = StrategyProportional
	cmp := StrategyComparison{
		TaxOptimal:   SimulateDrawdown(opt),
		Proportional: SimulateDrawdown(prop),
	}
	cmp.TaxSaved = cmp.Proportional.TotalTax.Sub(cmp.TaxOptimal.TotalTax)
	return cmp
}
