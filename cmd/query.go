package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/PaesslerAG/jsonpath"
	"github.com/google/subcommands"
)

// queryCmd holds the flags for the 'query' subcommand.
type queryCmd struct {
	path string
	file string
}

func (*queryCmd) Name() string     { return "query" }
func (*queryCmd) Synopsis() string { return "extract values from the household with a jsonpath" }
func (*queryCmd) Usage() string {
	return `hfp query -p <jsonpath> [-f <file>]

  Evaluates a jsonpath expression against the household file, or against any
  JSON result file produced by other commands.

Usage Examples:
# Name of the first person.
$ hfp query -p '$.persons[0].name'
# Every account value.
$ hfp query -p '$.accounts[*].currentValue'
`
}

func (c *queryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.path, "p", "", "jsonpath expression to evaluate")
	f.StringVar(&c.file, "f", "", "JSON file to query. Defaults to the household file.")
}

func (c *queryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.path == "" {
		fmt.Fprintln(os.Stderr, "the -p flag is required")
		return subcommands.ExitUsageError
	}
	file := c.file
	if file == "" {
		file = *householdFile
	}
	data, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %q: %v\n", file, err)
		return subcommands.ExitFailure
	}
	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding %q: %v\n", file, err)
		return subcommands.ExitFailure
	}

	result, err := jsonpath.Get(c.path, doc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error evaluating %q: %v\n", c.path, err)
		return subcommands.ExitFailure
	}
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding result: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println(string(out))
	return subcommands.ExitSuccess
}
