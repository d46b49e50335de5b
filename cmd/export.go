package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/camsfolio"
	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"
)

type exportCmd struct {
	passwords stringList
	csv       string
	txCSV     string
	xlsx      string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export the investment summary and transactions" }
func (*exportCmd) Usage() string {
	return `cams export [-p <password>]... [-csv <summary.csv>] [-transactions-csv <transactions.csv>] [-xlsx <workbook.xlsx>] <statement.pdf>...

  Writes the investment summary of every owner and fund as CSV, the transactions as
  CSV, and both in a workbook with an "Investment Summary" and an "All Transactions" sheet.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.Var(&c.passwords, "p", "Statement password, repeat it once per statement")
	f.StringVar(&c.csv, "csv", "", "Output file of the summary CSV")
	f.StringVar(&c.txCSV, "transactions-csv", "", "Output file of the transactions CSV")
	f.StringVar(&c.xlsx, "xlsx", "", "Output file of the workbook")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 || (c.csv == "" && c.txCSV == "" && c.xlsx == "") {
		f.Usage()
		return subcommands.ExitUsageError
	}

	table, batch, _, err := ingest(ctx, f.Args(), c.passwords)
	for _, e := range batch.Errors {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", e)
	}
	if errors.Is(err, camsfolio.ErrNoData) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	v := camsfolio.Valuate(table, navSource())
	if v.NAVErr != nil {
		fmt.Fprintf(os.Stderr, "Warning: funds are not valued: %v\n", v.NAVErr)
	}

	outputs := []struct {
		path  string
		write func(io.Writer) error
	}{
		{c.csv, func(w io.Writer) error { return camsfolio.WriteSummaryCSV(w, v.Rows) }},
		{c.txCSV, func(w io.Writer) error { return camsfolio.WriteTransactionsCSV(w, table) }},
		{c.xlsx, func(w io.Writer) error { return camsfolio.WriteWorkbook(w, v.Rows, table) }},
	}
	for _, out := range outputs {
		if out.path == "" {
			continue
		}
		if err := writeFile(out.path, out.write); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", out.path, err)
			return subcommands.ExitFailure
		}
		logrus.WithField("file", out.path).Info("exported")
	}
	return subcommands.ExitSuccess
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
