package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/ukfin/planner"
)

// fmtCmd holds the flags for the 'fmt' subcommand.
type fmtCmd struct {
	write bool
}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the household file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `hfp fmt [-w]

  Validates the household file, sorts the transactions by date, and prints it
  in canonical JSON with a stable field order. With -w the file is rewritten
  in place instead.
`
}

func (c *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.write, "w", false, "Write the formatted household back to the file instead of stdout")
}

func (c *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	h, err := decodeHousehold()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading household: %v\n", err)
		return subcommands.ExitFailure
	}

	if !c.write {
		if err := planner.EncodeHousehold(os.Stdout, h); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	out, err := os.Create(*householdFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening household file %q: %v\n", *householdFile, err)
		return subcommands.ExitFailure
	}
	defer out.Close()
	if err := planner.EncodeHousehold(out, h); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing household file: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Formatted %s\n", *householdFile)
	return subcommands.ExitSuccess
}
