package camsfolio

import (
	"errors"
	"testing"
)

func TestValueTransactions_Scenario(t *testing.T) {
	v := ValueTransactions(scenarioTable(), scenarioNAVs)
	if v.NAVErr != nil {
		t.Fatalf("ValueTransactions().NAVErr = %v, want nil", v.NAVErr)
	}
	if len(v.Rows) != 2 {
		t.Fatalf("ValueTransactions() = %d rows, want 2", len(v.Rows))
	}
	tests := []struct {
		row                          int
		nav, value, gain, todaysGain Money
	}{
		{0, INR(12), INR(1200), INR(200), INR(200)},
		{1, INR(12), INR(600), INR(100), INR(100)},
	}
	for _, tt := range tests {
		r := v.Rows[tt.row]
		if !r.Matched {
			t.Errorf("row %d Matched = false, want true", tt.row)
		}
		if !r.CurrentNAV.Equal(tt.nav) || !r.CurrentValue.Equal(tt.value) || !r.Gain.Equal(tt.gain) || !r.TodaysGain.Equal(tt.todaysGain) {
			t.Errorf("row %d = nav %v, value %v, gain %v, today %v, want %v, %v, %v, %v",
				tt.row, r.CurrentNAV, r.CurrentValue, r.Gain, r.TodaysGain, tt.nav, tt.value, tt.gain, tt.todaysGain)
		}
	}

	tot := v.Totals()
	if !tot.CurrentValue.Equal(INR(1800)) || !tot.Gain.Equal(INR(300)) || !tot.TodaysGain.Equal(INR(300)) || tot.Unmatched != 0 {
		t.Errorf("Totals() = %+v, want 1800 value, 300 gain, 300 today", tot)
	}
}

func TestValueTransactions_ByISIN(t *testing.T) {
	table, _ := Normalize(RawTable{Source: "a.pdf", Rows: []RawRow{
		{ColPAN: "P1", ColFund: "Example Fund - IDCW", ColISIN: "inf000000002", ColTxn: "Buy", ColAmount: "100", ColUnits: "10", ColNAV: "10"},
		{ColPAN: "P1", ColFund: "Example Fund - Growth", ColISIN: "", ColTxn: "Buy", ColAmount: "100", ColUnits: "10", ColNAV: "10"},
		{ColPAN: "P1", ColFund: "Example Fund - Growth", ColISIN: "INF000000001", ColTxn: "Buy", ColAmount: "", ColUnits: "", ColNAV: "10"},
	}})
	navs := NAVList{
		{SchemeCode: "120503", ISINGrowth: "INF000000001", SchemeName: "Example Fund - Direct Plan - Growth", NAV: d("12")},
		{SchemeCode: "120504", ISINDivReinv: "INF000000002", SchemeName: "Example Fund - Direct Plan - IDCW", NAV: d("8")},
	}
	v := ValueTransactions(table, navs)

	// dividend reinvestment ISIN, case-insensitive.
	if r := v.Rows[0]; !r.Matched || !r.CurrentValue.Equal(INR(80)) || !r.Gain.Equal(INR(-20)) || !r.TodaysGain.Equal(INR(-20)) {
		t.Errorf("IDCW row = %+v, want value 80, gain -20, today -20", r)
	}
	// no ISIN: never matched by fund name.
	if r := v.Rows[1]; r.Matched || !r.CurrentNAV.IsZero() || !r.Gain.Equal(INR(-100)) {
		t.Errorf("row without ISIN = %+v, want unmatched and gain -100", r)
	}
	// missing units: nothing derived.
	if r := v.Rows[2]; !r.Matched || !r.CurrentValue.IsZero() || !r.Gain.IsZero() || !r.TodaysGain.IsZero() {
		t.Errorf("row without units = %+v, want zero values", r)
	}
	if got := v.Totals().Unmatched; got != 1 {
		t.Errorf("Totals().Unmatched = %d, want 1", got)
	}
}

func TestValueTransactions_NAVFailure(t *testing.T) {
	v := ValueTransactions(scenarioTable(), failingNAV{errors.New("down")})
	if v.NAVErr == nil {
		t.Fatal("NAVErr = nil, want the source error")
	}
	tot := v.Totals()
	if !tot.CurrentValue.IsZero() || !tot.Gain.Equal(INR(-1500)) || tot.Unmatched != 2 {
		t.Errorf("Totals() = %+v, want 0 value, -1500 gain, 2 unmatched", tot)
	}

	if v := ValueTransactions(scenarioTable(), NAVList{}); !errors.Is(v.NAVErr, ErrEmptyNAVList) {
		t.Errorf("empty list NAVErr = %v, want ErrEmptyNAVList", v.NAVErr)
	}
	if v := ValueTransactions(NewTable(), nil); v.NAVErr != nil || len(v.Rows) != 0 {
		t.Errorf("empty table = %+v, want no row and no error", v)
	}
}

func TestNAVList_ByISIN(t *testing.T) {
	tests := []struct {
		isin string
		code string
		ok   bool
	}{
		{"INF000000001", "120503", true},
		{" inf000000001 ", "120503", true},
		{"INF999", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		e, ok := scenarioNAVs.ByISIN(tt.isin)
		if ok != tt.ok || e.SchemeCode != tt.code {
			t.Errorf("ByISIN(%q) = %q, %v, want %q, %v", tt.isin, e.SchemeCode, ok, tt.code, tt.ok)
		}
	}
}
