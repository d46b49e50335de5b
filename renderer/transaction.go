package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/camsfolio"
	md "github.com/nao1215/markdown"
)

// TransactionsMarkdown renders the priced transactions followed by their statistics.
func TransactionsMarkdown(v *camsfolio.TransactionValuation) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Transactions")
	t := v.Table
	if t.Len() == 0 {
		doc.PlainText("No transaction selected.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignLeft, md.AlignLeft,
			md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight,
		},
		Header: []string{"Date", "PAN", "Folio", "Fund", "Type", "Amount", "Units", "NAV", "Current NAV", "Current Value", "Gain", "Today's Gain"},
	}
	for _, tv := range v.Rows {
		tx := tv.Transaction
		date := tx.Date.String()
		if date == "" {
			date = missing
		}
		table.Rows = append(table.Rows, []string{
			date,
			tx.Owner,
			tx.Folio,
			tx.Fund,
			tx.TypeLabel(),
			nullDecimal(tx.Amount, 2),
			nullDecimal(tx.Units, 3),
			nullDecimal(tx.Price, 4),
			currentNAV(tv),
			tv.CurrentValue.String(),
			tv.Gain.SignedString(),
			tv.TodaysGain.SignedString(),
		})
	}
	doc.Table(table)

	if v.NAVErr != nil {
		doc.PlainText(md.Bold("Warning:") + fmt.Sprintf(" no NAV available (%v), every transaction is priced at 0.", v.NAVErr))
	}

	stats := camsfolio.Stats(t)
	totals := v.Totals()
	doc.H2("Statistics")
	doc.Table(md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{md.Bold("Transactions"), md.Bold(fmt.Sprint(stats.Count))},
		Rows: [][]string{
			{"Buy", fmt.Sprint(stats.Buys)},
			{"Sell", fmt.Sprint(stats.Sells)},
			{"Total Amount", camsfolio.INR(stats.TotalAmount).String()},
			{"Funds", fmt.Sprint(stats.Funds)},
			{"Folios", fmt.Sprint(stats.Folios)},
			{"Current Value", totals.CurrentValue.String()},
			{"Unrealized Gain", totals.Gain.SignedString()},
			{"Today's Gain", totals.TodaysGain.SignedString()},
			{"Without NAV", fmt.Sprint(totals.Unmatched)},
		},
	})

	perFund := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight, md.AlignRight},
		Header:    []string{"Fund", "Count", "Amount", "Mean Amount", "Units", "Mean Units"},
	}
	for _, f := range stats.PerFund {
		perFund.Rows = append(perFund.Rows, []string{
			f.Fund,
			fmt.Sprint(f.Count),
			camsfolio.INR(f.AmountSum).String(),
			camsfolio.INR(f.AmountMean).String(),
			f.UnitsSum.StringFixed(3),
			f.UnitsMean.StringFixed(3),
		})
	}
	doc.H3("Per Fund")
	doc.Table(perFund)

	return doc.String()
}

// currentNAV is the latest NAV of a transaction, missing when its ISIN has no scheme.
func currentNAV(tv camsfolio.TransactionValue) string {
	if !tv.Matched {
		return missing
	}
	return tv.CurrentNAV.Decimal().StringFixed(4)
}
