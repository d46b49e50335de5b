package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/camsfolio"
	md "github.com/nao1215/markdown"
)

// SummaryMarkdown renders the totals and the per fund valuation of rows.
func SummaryMarkdown(rows []camsfolio.SummaryRow, navErr error) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Investment Summary")

	if navErr != nil {
		doc.PlainText(md.Bold("Warning:") + fmt.Sprintf(" no NAV available (%v), every fund is priced at 0.", navErr))
	}

	tot := camsfolio.TotalsOf(rows)
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Total Invested"), md.Bold(tot.Invested.String())},
		Rows: [][]string{
			{"Current Value", tot.CurrentValue.String()},
			{"Unrealized Gain", tot.Gain.SignedString()},
			{"Overall Return", tot.Return.SignedString()},
		},
	})

	if len(rows) == 0 {
		doc.PlainText("No Buy transaction selected.")
		return doc.String()
	}

	doc.H2("Funds")
	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft, md.AlignLeft,
			md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight,
		},
		Header: []string{"PAN", "Fund", "Units", "Avg Price", "Invested", "Current Price", "Current Value", "Gain", "Return"},
	}
	var unmatched []string
	for _, r := range rows {
		table.Rows = append(table.Rows, []string{
			r.Owner,
			r.Fund,
			r.Units.String(),
			r.AvgPrice.String(),
			r.Invested.String(),
			r.CurrentPrice.String(),
			r.CurrentValue.String(),
			r.Gain.SignedString(),
			r.Return.SignedString(),
		})
		if !r.Matched() {
			unmatched = append(unmatched, r.Fund)
		}
	}
	doc.Table(table)

	if len(unmatched) > 0 && navErr == nil {
		doc.H2("Funds Without NAV")
		doc.BulletList(unmatched...)
	}

	return doc.String()
}
