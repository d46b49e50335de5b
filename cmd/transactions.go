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
	"github.com/shopspring/decimal"
)

type transactionsCmd struct {
	passwords stringList
	from, to  string
	min, max  string
	types     stringList
	folios    stringList
	pans      stringList
	raw       bool
}

func (*transactionsCmd) Name() string { return "transactions" }
func (*transactionsCmd) Synopsis() string {
	return "list and summarize the transactions of CAMS statements"
}
func (*transactionsCmd) Usage() string {
	return `cams transactions [-p <password>]... [-from <date>] [-to <date>] [-min <amount>] [-max <amount>]
                  [-type buy|sell|dividend|other]... [-folio <folio>]... [-pan <PAN>]... <statement.pdf>...

  Lists the transactions matching every given criterion, priced at the latest NAV of
  their ISIN, followed by their statistics.
  Dates are YYYY-MM-DD, DD-Mon-YYYY or relative (-1m, -2w, ...). Bounds are inclusive.
`
}

func (c *transactionsCmd) SetFlags(f *flag.FlagSet) {
	f.Var(&c.passwords, "p", "Statement password, repeat it once per statement")
	f.StringVar(&c.from, "from", "", "First transaction date")
	f.StringVar(&c.to, "to", "", "Last transaction date")
	f.StringVar(&c.min, "min", "", "Minimum amount")
	f.StringVar(&c.max, "max", "", "Maximum amount")
	f.Var(&c.types, "type", "Transaction type (buy, sell, dividend, other), can be repeated")
	f.Var(&c.folios, "folio", "Folio number, can be repeated")
	f.Var(&c.pans, "pan", "Owner PAN, can be repeated")
	f.BoolVar(&c.raw, "raw", false, "Print markdown instead of rendering it")
}

// filter builds the TransactionFilter of the flags on top of state.
func (c *transactionsCmd) filter(state *camsfolio.FilterState) (camsfolio.TransactionFilter, error) {
	tf := camsfolio.TransactionFilter{State: state, Folios: c.folios}
	if c.from != "" || c.to != "" {
		var r camsfolio.Range
		var err error
		if c.from != "" {
			if r.From, err = camsfolio.ParseDate(c.from); err != nil {
				return tf, err
			}
		}
		if c.to != "" {
			if r.To, err = camsfolio.ParseDate(c.to); err != nil {
				return tf, err
			}
		}
		tf.Dates = &r
	}
	if c.min != "" || c.max != "" {
		var r camsfolio.AmountRange
		if c.min != "" {
			m, err := decimal.NewFromString(c.min)
			if err != nil {
				return tf, fmt.Errorf("invalid minimum amount %q: %w", c.min, err)
			}
			r.Min = &m
		}
		if c.max != "" {
			m, err := decimal.NewFromString(c.max)
			if err != nil {
				return tf, fmt.Errorf("invalid maximum amount %q: %w", c.max, err)
			}
			r.Max = &m
		}
		tf.Amounts = &r
	}
	for _, t := range c.types {
		typ := camsfolio.ParseTxnType(t)
		if typ == camsfolio.Other && !strings.EqualFold(strings.TrimSpace(t), "other") {
			return tf, fmt.Errorf("unknown transaction type %q", t)
		}
		tf.Types = append(tf.Types, typ)
	}
	return tf, nil
}

func (c *transactionsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	tf, err := c.filter(state)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	var b strings.Builder
	b.WriteString(renderer.TransactionsMarkdown(camsfolio.ValueTransactions(tf.Apply(table), navSource())))
	b.WriteString(renderer.ErrorsMarkdown(batch.Errors, gaps))
	printMarkdown(b.String(), c.raw)

	return subcommands.ExitSuccess
}
