// Package cmd implements the CLI application to run the household planner.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/ukfin/planner"
	"github.com/ukfin/planner/date"
)

// Commands lists every subcommand of the application. A main package
// registers them all and executes the user-selected one.
var Commands = []subcommands.Command{
	&gainsCmd{},
	&drawdownCmd{},
	&compareCmd{},
	&scenarioCmd{},
	&savingsRateCmd{},
	&taperCmd{},
	&fmtCmd{},
	&queryCmd{},
	&topicCmd{},
}

// As a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var householdFile = flag.String("household-file", "household.json", "Path to the household file (JSON format)")
var taxTableFile = flag.String("tax-table", "", "Path to a tax constants YAML file overriding the built-in table")

// decodeHousehold reads the app household file.
func decodeHousehold() (planner.Household, error) {
	f, err := os.Open(*householdFile)
	if err != nil {
		return planner.Household{}, fmt.Errorf("could not open household file %q: %w", *householdFile, err)
	}
	defer f.Close()
	return planner.DecodeHousehold(f)
}

// constantsFor resolves the tax constants for a year, from the user table
// when one is given.
func constantsFor(year date.TaxYear) (planner.TaxConstants, error) {
	table := planner.DefaultTaxTable()
	if *taxTableFile != "" {
		f, err := os.Open(*taxTableFile)
		if err != nil {
			return planner.TaxConstants{}, fmt.Errorf("could not open tax table %q: %w", *taxTableFile, err)
		}
		defer f.Close()
		table, err = planner.LoadTaxTable(f)
		if err != nil {
			return planner.TaxConstants{}, err
		}
	}
	return table.ConstantsFor(year), nil
}

// currentTaxYear is the default year for reports.
func currentTaxYear() date.TaxYear { return date.TaxYearOf(date.Today()) }

// printMarkdown renders a markdown report to the terminal.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		// Fall back to the raw markdown.
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
