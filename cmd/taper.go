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

// taperCmd holds the flags for the 'taper' subcommand.
type taperCmd struct{}

func (*taperCmd) Name() string     { return "taper" }
func (*taperCmd) Synopsis() string { return "pension contributions avoiding the allowance taper" }
func (*taperCmd) Usage() string {
	return `hfp taper

  For every person earning between the personal-allowance taper threshold and
  the higher-rate limit, works out the extra salary-sacrifice pension
  contribution bringing adjusted income down to the threshold, and previews
  the tax and take-home impact.
`
}

func (c *taperCmd) SetFlags(f *flag.FlagSet) {}

func (c *taperCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	preset := planner.BuildAvoidTaperPreset(h, constants)
	after := planner.ApplyScenarioOverrides(h, preset)

	// The impact preview keys off the pension change each override causes.
	deltas := map[string]planner.Money{}
	for _, co := range preset.Contributions {
		if co.Pension == nil {
			continue
		}
		var existing planner.Money
		for _, cb := range h.ContributionsOf(co.PersonID) {
			if cb.Wrapper == planner.WrapperPension {
				existing = existing.Add(cb.Annual)
			}
		}
		deltas[co.PersonID] = co.Pension.Sub(existing)
	}
	impacts := planner.CalculateScenarioImpact(h, deltas, constants)

	printMarkdown(renderer.ScenarioMarkdown(h, after))
	printMarkdown(renderer.ImpactMarkdown(impacts))
	return subcommands.ExitSuccess
}
