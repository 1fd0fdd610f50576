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

// savingsRateCmd holds the flags for the 'savings-rate' subcommand.
type savingsRateCmd struct {
	target float64
}

func (*savingsRateCmd) Name() string     { return "savings-rate" }
func (*savingsRateCmd) Synopsis() string { return "contribution plan hitting a target savings rate" }
func (*savingsRateCmd) Usage() string {
	return `hfp savings-rate -target <percent>

  Scales each person's existing ISA/pension/GIA contribution mix so the
  household saves the target share of its gross income. ISA contributions are
  capped at the annual allowance, the excess goes to GIA.
`
}

func (c *savingsRateCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.target, "target", 0, "Target household savings rate in percent, e.g. 30")
}

func (c *savingsRateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.target <= 0 || c.target > 100 {
		fmt.Fprintln(os.Stderr, "the -target flag must be a percentage between 0 and 100")
		return subcommands.ExitUsageError
	}
	constants, err := constantsFor(currentTaxYear())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading tax constants: %v\n", err)
		return subcommands.ExitFailure
	}
	h, err := decodeHousehold()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading household: %v\n", err)
		return subcommands.ExitFailure
	}

	plan := planner.ScaleSavingsRateContributions(h, planner.Percent(c.target), constants)
	printMarkdown(renderer.ContributionsMarkdown(plan))
	return subcommands.ExitSuccess
}
