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

// compareCmd holds the flags for the 'compare' subcommand.
type compareCmd struct {
	drawdownCmd
}

func (*compareCmd) Name() string     { return "compare" }
func (*compareCmd) Synopsis() string { return "tax cost of both drawdown strategies side by side" }
func (*compareCmd) Usage() string {
	return `hfp compare [-start <age>] [-end <age>] [-need <amount>]

  Runs the tax_optimal and proportional drawdown strategies on identical
  inputs and reports the tax saved by sequencing withdrawals.
`
}

func (c *compareCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.startAge, "start", 0, "Simulation start age. Defaults to the first person's retirement age.")
	f.IntVar(&c.endAge, "end", 0, "Simulation end age. Defaults to the household's configured end age.")
	f.Float64Var(&c.need, "need", 0, "Annual net spending need. Defaults to the household's configured need.")
}

func (c *compareCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	h, err := decodeHousehold()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading household: %v\n", err)
		return subcommands.ExitFailure
	}
	params, err := c.drawdownParams(h, planner.StrategyTaxOptimal)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	printMarkdown(renderer.ComparisonMarkdown(planner.CompareDrawdownStrategies(params)))
	return subcommands.ExitSuccess
}
