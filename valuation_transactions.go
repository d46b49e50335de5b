package camsfolio

import "github.com/sirupsen/logrus"

// TransactionValue is a transaction priced at the latest NAV of its ISIN.
//
// A value derived from a missing amount, units or purchase NAV is zero, so that it
// does not count in totals.
type TransactionValue struct {
	Transaction
	CurrentNAV   Money // 0 when the ISIN matches no scheme
	CurrentValue Money // Units × CurrentNAV
	Gain         Money // CurrentValue − Amount
	TodaysGain   Money // Units × (CurrentNAV − purchase NAV)
	Matched      bool
}

// TransactionTotals sums the values of a set of transactions.
type TransactionTotals struct {
	CurrentValue Money `json:"current_value"`
	Gain         Money `json:"gain"`
	TodaysGain   Money `json:"todays_gain"`
	Unmatched    int   `json:"unmatched"`
}

// TransactionValuation prices every transaction of a table, whatever its type.
type TransactionValuation struct {
	Table  *Table
	Rows   []TransactionValue
	NAVErr error // NAV source failure, every transaction is then priced at 0
}

// ValueTransactions prices each transaction of t with the scheme of src having its
// ISIN as growth or dividend reinvestment ISIN. Unlike Valuate, fund names are not
// matched: a transaction without a known ISIN is priced at 0.
func ValueTransactions(t *Table, src NAVSource) *TransactionValuation {
	v := &TransactionValuation{Table: t}
	if t.Len() == 0 {
		return v
	}
	entries, err := loadNAVs(src)
	v.NAVErr = err
	list := NAVList(entries)

	v.Rows = make([]TransactionValue, 0, t.Len())
	for tx := range t.All() {
		tv := TransactionValue{
			Transaction:  tx,
			CurrentNAV:   INR(0),
			CurrentValue: INR(0),
			Gain:         INR(0),
			TodaysGain:   INR(0),
		}
		if e, ok := list.ByISIN(tx.ISIN); ok {
			tv.CurrentNAV = INR(e.NAV)
			tv.Matched = true
		} else if err == nil {
			logrus.WithField("isin", tx.ISIN).Debug("no NAV entry for ISIN")
		}
		if tx.Units.Valid {
			tv.CurrentValue = tv.CurrentNAV.Mul(Q(tx.Units.Decimal))
			if tx.Amount.Valid {
				tv.Gain = tv.CurrentValue.Sub(INR(tx.Amount.Decimal))
			}
			if tx.Price.Valid {
				diff := tv.CurrentNAV.Decimal().Sub(tx.Price.Decimal)
				tv.TodaysGain = INR(tx.Units.Decimal.Mul(diff))
			}
		}
		v.Rows = append(v.Rows, tv)
	}
	return v
}

// Totals sums the transaction values.
func (v *TransactionValuation) Totals() TransactionTotals {
	tot := TransactionTotals{CurrentValue: INR(0), Gain: INR(0), TodaysGain: INR(0)}
	for _, r := range v.Rows {
		tot.CurrentValue = tot.CurrentValue.Add(r.CurrentValue)
		tot.Gain = tot.Gain.Add(r.Gain)
		tot.TodaysGain = tot.TodaysGain.Add(r.TodaysGain)
		if !r.Matched {
			tot.Unmatched++
		}
	}
	return tot
}
