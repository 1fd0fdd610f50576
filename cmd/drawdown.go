package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/ukfin/planner"
	"github.com/ukfin/planner/renderer"
)

// drawdownCmd holds the flags for the 'drawdown' subcommand.
type drawdownCmd struct {
	strategy string
	startAge int
	endAge   int
	need     float64
}

func (*drawdownCmd) Name() string     { return "drawdown" }
func (*drawdownCmd) Synopsis() string { return "year-by-year retirement drawdown simulation" }
func (*drawdownCmd) Usage() string {
	return `hfp drawdown [-strategy <strategy>] [-start <age>] [-end <age>] [-need <amount>]

  Simulates retirement withdrawals from the household's pension, ISA, GIA and
  cash pots to meet the annual spending need. The tax_optimal strategy drains
  taxable pots first and defers the pension; proportional draws every pot
  pro rata.
`
}

func (c *drawdownCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.strategy, "strategy", string(planner.StrategyTaxOptimal), "Withdrawal strategy (tax_optimal, proportional)")
	f.IntVar(&c.startAge, "start", 0, "Simulation start age. Defaults to the first person's retirement age.")
	f.IntVar(&c.endAge, "end", 0, "Simulation end age. Defaults to the household's configured end age.")
	f.Float64Var(&c.need, "need", 0, "Annual net spending need. Defaults to the household's configured need.")
}

// drawdownParams builds simulation inputs from the household, with flag
// overrides taking precedence over the retirement config.
func (c *drawdownCmd) drawdownParams(h planner.Household, strategy planner.Strategy) (planner.DrawdownParams, error) {
	r := h.Retirement
	constants, err := constantsFor(currentTaxYear())
	if err != nil {
		return planner.DrawdownParams{}, err
	}

	p := planner.DrawdownParams{
		Pots:               h.Pots(),
		AnnualNeed:         r.AnnualSpendingNeed,
		StatePensionAnnual: r.StatePensionAnnual,
		StatePensionAge:    r.StatePensionAge,
		StartAge:           c.startAge,
		EndAge:             r.EndAge,
		Growth:             r.GrowthRate,
		Strategy:           strategy,
		Constants:          constants,
	}
	if c.need > 0 {
		p.AnnualNeed = planner.M(c.need)
	}
	if c.endAge > 0 {
		p.EndAge = c.endAge
	}
	if p.StartAge == 0 {
		p.StartAge = 65
		if len(h.Persons) > 0 && h.Persons[0].RetirementAge > 0 {
			p.StartAge = h.Persons[0].RetirementAge
		}
	}
	if p.EndAge < p.StartAge {
		return planner.DrawdownParams{}, fmt.Errorf("end age %d is before start age %d", p.EndAge, p.StartAge)
	}
	if !p.AnnualNeed.IsPositive() {
		return planner.DrawdownParams{}, fmt.Errorf("annual spending need is not set")
	}
	return p, nil
}

func (c *drawdownCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	strategy, err := planner.ParseStrategy(c.strategy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing strategy: %v\n", err)
		return subcommands.ExitUsageError
	}
	h, err := decodeHousehold()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading household: %v\n", err)
		return subcommands.ExitFailure
	}
	params, err := c.drawdownParams(h, strategy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	printMarkdown(renderer.DrawdownMarkdown(planner.SimulateDrawdown(params)))
	return subcommands.ExitSuccess
}
