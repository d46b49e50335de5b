package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/camsfolio"
	"github.com/etnz/camsfolio/renderer"
	"github.com/google/subcommands"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	passwords stringList
	pans      stringList
	families  stringList
	raw       bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the investment summary of CAMS statements" }
func (*summaryCmd) Usage() string {
	return `cams summary [-p <password>]... [-pan <PAN>]... [-family <family>]... [-raw] <statement.pdf>...

  Extracts the statements, values every fund bought at its latest NAV and
  displays the investment summary of the selected owners and fund families.
  Passwords are matched to statements in order; a single password applies to all.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.Var(&c.passwords, "p", "Statement password, repeat it once per statement")
	f.Var(&c.pans, "pan", "Only report this owner PAN, can be repeated")
	f.Var(&c.families, "family", "Only report the funds of this family (e.g. \"Example Fund\"), can be repeated")
	f.BoolVar(&c.raw, "raw", false, "Print markdown instead of rendering it")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}

	table, batch, gaps, err := ingest(ctx, f.Args(), c.passwords)
	if errors.Is(err, camsfolio.ErrNoData) {
		printMarkdown(renderer.ErrorsMarkdown(batch.Errors, gaps), c.raw)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	state := camsfolio.NewFilterState(table)
	if err := selectOwners(state, c.pans); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if err := selectFamilies(state, c.families); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	v := camsfolio.Valuate(table, navSource())

	var b strings.Builder
	b.WriteString(renderer.SummaryMarkdown(v.Filter(state), v.NAVErr))
	b.WriteString(renderer.FiltersMarkdown(state))
	b.WriteString(renderer.ErrorsMarkdown(batch.Errors, gaps))
	printMarkdown(b.String(), c.raw)

	return subcommands.ExitSuccess
}
