package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/ukfin/planner"
	"github.com/ukfin/planner/renderer"
)

// scenarioCmd holds the flags for the 'scenario' subcommand.
type scenarioCmd struct {
	overridesFile string
}

func (*scenarioCmd) Name() string     { return "scenario" }
func (*scenarioCmd) Synopsis() string { return "what-if comparison against an overrides file" }
func (*scenarioCmd) Usage() string {
	return `hfp scenario -o <overrides.json>

  Applies a sparse set of overrides (person edits, income edits, contribution
  replacements, retirement config, market shock, explicit account values) to
  the household and reports the before/after differences. The household file
  itself is never modified.
`
}

func (c *scenarioCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.overridesFile, "o", "", "Path to the scenario overrides file (JSON format)")
}

func (c *scenarioCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.overridesFile == "" {
		fmt.Fprintln(os.Stderr, "the -o flag is required")
		return subcommands.ExitUsageError
	}
	data, err := os.ReadFile(c.overridesFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading overrides file: %v\n", err)
		return subcommands.ExitFailure
	}
	var overrides planner.ScenarioOverrides
	if err := json.Unmarshal(data, &overrides); err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding overrides file: %v\n", err)
		return subcommands.ExitFailure
	}
	h, err := decodeHousehold()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading household: %v\n", err)
		return subcommands.ExitFailure
	}

	after := planner.ApplyScenarioOverrides(h, overrides)
	printMarkdown(renderer.ScenarioMarkdown(h, after))
	return subcommands.ExitSuccess
}
