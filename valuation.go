package camsfolio

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// SummaryRow values the Buy transactions of one owner in one fund.
type SummaryRow struct {
	Owner        string   `json:"owner"`
	Fund         string   `json:"fund"`
	Invested     Money    `json:"invested"`
	Units        Quantity `json:"units"`
	AvgPrice     Money    `json:"avg_price"`
	CurrentPrice Money    `json:"current_price"`
	SchemeName   string   `json:"scheme_name,omitempty"` // matched NAV scheme, empty when unmatched
	SchemeCode   string   `json:"scheme_code,omitempty"`
	CurrentValue Money    `json:"current_value"`
	Gain         Money    `json:"gain"`
	Return       Percent  `json:"return"`
}

// Matched reports whether a NAV entry priced this row.
func (r SummaryRow) Matched() bool { return r.SchemeName != "" }

// Totals aggregates a set of summary rows.
type Totals struct {
	Invested     Money   `json:"invested"`
	CurrentValue Money   `json:"current_value"`
	Gain         Money   `json:"gain"`
	Return       Percent `json:"return"`
	Funds        int     `json:"funds"`
}

// Valuation is the priced investment summary of a table.
type Valuation struct {
	Rows []SummaryRow
	// NAVErr is the NAV source failure, if any. Every fund is then priced at 0.
	NAVErr error
}

// Valuate aggregates the Buy transactions of t per (owner, fund) and prices them with src.
//
// Amounts invested do not net out redemptions. Missing amounts, units and prices are
// excluded from sums and means. A fund that matches no NAV entry is priced at 0.
// Valuate never fails and never modifies t.
func Valuate(t *Table, src NAVSource) *Valuation {
	v := &Valuation{}
	groups := groupBuys(t)
	if len(groups) == 0 {
		return v
	}

	var entries []NAVEntry
	entries, v.NAVErr = loadNAVs(src)
	matcher := newNAVMatcher(entries)
	list := NAVList(entries)

	v.Rows = make([]SummaryRow, 0, len(groups))
	for _, g := range groups {
		row := SummaryRow{
			Owner:        g.owner,
			Fund:         g.fund,
			Invested:     INR(g.amount),
			Units:        Q(g.units),
			AvgPrice:     INR(g.meanPrice()),
			CurrentPrice: INR(0),
			SchemeCode:   g.schemeCode,
		}
		if e, ok := matcher.match(g.fund); ok {
			row.CurrentPrice = INR(e.NAV)
			row.SchemeName = e.SchemeName
			row.SchemeCode = e.SchemeCode
		} else {
			logrus.WithField("fund", g.fund).Debug("no NAV entry for fund")
		}
		if row.SchemeCode == "" {
			row.SchemeCode, _ = list.SchemeCode(g.isin)
		}
		row.CurrentValue = row.CurrentPrice.Mul(row.Units)
		row.Gain = row.CurrentValue.Sub(row.Invested)
		row.Return = row.Gain.Ratio(row.Invested)
		v.Rows = append(v.Rows, row)
	}
	return v
}

// loadNAVs reads src. On failure, or when src lists nothing, it returns no entry and
// the reason, so that everything is priced at 0.
func loadNAVs(src NAVSource) ([]NAVEntry, error) {
	if src == nil {
		logrus.WithError(ErrEmptyNAVList).Warn("pricing every fund at 0")
		return nil, ErrEmptyNAVList
	}
	entries, err := src.NAVs()
	if err == nil && len(entries) == 0 {
		err = ErrEmptyNAVList
	}
	if err != nil {
		logrus.WithError(err).Warn("pricing every fund at 0")
		return nil, err
	}
	return entries, nil
}

// Totals sums the valuation rows.
func (v *Valuation) Totals() Totals { return TotalsOf(v.Rows) }

// Filter returns the rows whose owner and fund are selected. A nil state selects everything.
func (v *Valuation) Filter(s *FilterState) []SummaryRow {
	var res []SummaryRow
	for _, r := range v.Rows {
		if s == nil || s.Selects(r.Owner, r.Fund) {
			res = append(res, r)
		}
	}
	return res
}

// TotalsOf sums Invested, CurrentValue and Gain of rows. The overall return is 0 when nothing is invested.
func TotalsOf(rows []SummaryRow) Totals {
	t := Totals{Invested: INR(0), CurrentValue: INR(0), Gain: INR(0), Funds: len(rows)}
	for _, r := range rows {
		t.Invested = t.Invested.Add(r.Invested)
		t.CurrentValue = t.CurrentValue.Add(r.CurrentValue)
		t.Gain = t.Gain.Add(r.Gain)
	}
	t.Return = t.Gain.Ratio(t.Invested)
	return t
}

func (t Totals) String() string {
	return fmt.Sprintf("invested %v, value %v, gain %v (%v)", t.Invested, t.CurrentValue, t.Gain, t.Return)
}

// buyGroup accumulates the Buy transactions of an (owner, fund) pair.
type buyGroup struct {
	owner, fund string
	isin        string
	schemeCode  string
	amount      decimal.Decimal
	units       decimal.Decimal
	priceSum    decimal.Decimal
	priceCount  int64
}

func (g *buyGroup) add(tx Transaction) {
	if tx.Amount.Valid {
		g.amount = g.amount.Add(tx.Amount.Decimal)
	}
	if tx.Units.Valid {
		g.units = g.units.Add(tx.Units.Decimal)
	}
	if tx.Price.Valid {
		g.priceSum = g.priceSum.Add(tx.Price.Decimal)
		g.priceCount++
	}
	if g.isin == "" {
		g.isin = tx.ISIN
	}
	if g.schemeCode == "" {
		g.schemeCode = tx.SchemeCode
	}
}

func (g *buyGroup) meanPrice() decimal.Decimal {
	if g.priceCount == 0 {
		return decimal.Zero
	}
	return g.priceSum.Div(decimal.NewFromInt(g.priceCount))
}

// groupBuys groups Buy transactions by owner then fund, sorted.
func groupBuys(t *Table) []*buyGroup {
	type key struct{ owner, fund string }
	index := make(map[key]*buyGroup)
	var groups []*buyGroup
	for tx := range t.All() {
		if tx.Type != Buy {
			continue
		}
		k := key{tx.Owner, tx.Fund}
		g, exists := index[k]
		if !exists {
			g = &buyGroup{owner: tx.Owner, fund: tx.Fund}
			index[k] = g
			groups = append(groups, g)
		}
		g.add(tx)
	}
	slices.SortFunc(groups, func(a, b *buyGroup) int {
		return cmp.Or(cmp.Compare(a.owner, b.owner), cmp.Compare(a.fund, b.fund))
	})
	return groups
}
