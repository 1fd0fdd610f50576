package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/ukfin/planner"
	"github.com/ukfin/planner/date"
	"github.com/ukfin/planner/renderer"
)

// gainsCmd holds the flags for the 'gains' subcommand.
type gainsCmd struct {
	year string
}

func (*gainsCmd) Name() string     { return "gains" }
func (*gainsCmd) Synopsis() string { return "capital gains report for a tax year" }
func (*gainsCmd) Usage() string {
	return `hfp gains [-year <tax-year>]

  Applies the HMRC share-matching rules (same-day, 30-day bed and breakfast,
  Section 104 pool) to the household transactions and reports the realised
  gains of the tax year plus the unrealised position of current holdings.
`
}

func (c *gainsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.year, "year", currentTaxYear().String(), "Tax year to report, e.g. 2024-25")
}

func (c *gainsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	year, err := date.ParseTaxYear(c.year)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing tax year: %v\n", err)
		return subcommands.ExitUsageError
	}
	constants, err := constantsFor(year)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading tax constants: %v\n", err)
		return subcommands.ExitFailure
	}
	h, err := decodeHousehold()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading household: %v\n", err)
		return subcommands.ExitFailure
	}

	gains := planner.GainsForTaxYear(h.Transactions, year, constants)
	unrealised := planner.UnrealisedGains(h.Accounts, h.Funds, h.Transactions)

	printMarkdown(renderer.GainsMarkdown(&h, gains, unrealised))
	return subcommands.ExitSuccess
}
