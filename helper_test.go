package camsfolio

import "github.com/shopspring/decimal"

// buy is a helper for test to create a raw Buy line.
func buy(pan, fund, date, amount, units, nav string) RawRow {
	return RawRow{
		ColPAN: pan, ColFolio: "F-1", ColFund: fund, ColISIN: "INF000000001",
		ColDate: date, ColTxn: "Buy", ColAmount: amount, ColUnits: units, ColNAV: nav,
	}
}

// d is a helper for test to create a decimal from a const.
func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// nd is a helper for test to create a valid NullDecimal from a const.
func nd(s string) decimal.NullDecimal { return decimal.NewNullDecimal(d(s)) }

// scenarioTable is two statements of ABCDE1234F buying "Example Fund - Growth".
func scenarioTable() *Table {
	t, _ := Normalize(
		RawTable{Source: "jan.pdf", Rows: []RawRow{buy("ABCDE1234F", "Example Fund - Growth", "5-Jan-2023", "1000", "100", "10")}},
		RawTable{Source: "feb.pdf", Rows: []RawRow{buy("ABCDE1234F", "Example Fund - Growth", "5-Feb-2023", "500", "50", "10")}},
	)
	return t
}

var scenarioNAVs = NAVList{
	{SchemeCode: "100001", SchemeName: "Other Scheme - Direct Plan", NAV: d("99")},
	{SchemeCode: "120503", ISINGrowth: "INF000000001", SchemeName: "Example Fund - Direct Plan - Growth", NAV: d("12.00")},
}

// failingNAV is a NAVSource that always fails.
type failingNAV struct{ err error }

func (f failingNAV) NAVs() ([]NAVEntry, error) { return nil, f.err }
