package camsfolio

import (
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// FundStats aggregates the transactions of one fund.
type FundStats struct {
	Fund        string          `json:"fund"`
	Count       int             `json:"count"`
	AmountSum   decimal.Decimal `json:"amount_sum"`
	AmountMean  decimal.Decimal `json:"amount_mean"`
	UnitsSum    decimal.Decimal `json:"units_sum"`
	UnitsMean   decimal.Decimal `json:"units_mean"`
	amountCount int64
	unitsCount  int64
}

// TransactionStats describes a set of transactions.
type TransactionStats struct {
	Count       int             `json:"count"`
	Buys        int             `json:"buys"`
	Sells       int             `json:"sells"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Funds       int             `json:"funds"`
	Folios      int             `json:"folios"` // distinct non empty folio numbers
	PerFund     []FundStats     `json:"per_fund"`
}

// Stats computes statistics over the transactions of t. Missing amounts and units
// are excluded from sums and means.
func Stats(t *Table) TransactionStats {
	var s TransactionStats
	funds := make(map[string]*FundStats)
	folios := make(map[string]struct{})
	for tx := range t.All() {
		s.Count++
		switch tx.Type {
		case Buy:
			s.Buys++
		case Sell:
			s.Sells++
		}
		if tx.Folio != "" {
			folios[tx.Folio] = struct{}{}
		}
		f, exists := funds[tx.Fund]
		if !exists {
			f = &FundStats{Fund: tx.Fund}
			funds[tx.Fund] = f
		}
		f.Count++
		if tx.Amount.Valid {
			s.TotalAmount = s.TotalAmount.Add(tx.Amount.Decimal)
			f.AmountSum = f.AmountSum.Add(tx.Amount.Decimal)
			f.amountCount++
		}
		if tx.Units.Valid {
			f.UnitsSum = f.UnitsSum.Add(tx.Units.Decimal)
			f.unitsCount++
		}
	}
	s.Funds = len(funds)
	s.Folios = len(folios)
	for _, name := range slices.Sorted(maps.Keys(funds)) {
		f := funds[name]
		if f.amountCount > 0 {
			f.AmountMean = f.AmountSum.Div(decimal.NewFromInt(f.amountCount))
		}
		if f.unitsCount > 0 {
			f.UnitsMean = f.UnitsSum.Div(decimal.NewFromInt(f.unitsCount))
		}
		s.PerFund = append(s.PerFund, *f)
	}
	return s
}
