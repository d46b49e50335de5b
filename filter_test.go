package camsfolio

import (
	"reflect"
	"slices"
	"testing"
	"time"
)

func fundTable() *Table {
	t, _ := Normalize(RawTable{Source: "a.pdf", Rows: []RawRow{
		buy("P1", "Fund A - Growth", "1-Jan-2023", "100", "10", "10"),
		buy("P1", "Fund A - Dividend", "1-Feb-2023", "200", "20", "10"),
		buy("P2", "Fund B - Growth", "1-Mar-2023", "300", "30", "10"),
	}})
	return t
}

func TestFilterState_Defaults(t *testing.T) {
	s := NewFilterState(fundTable())
	if got, want := s.Owners(), []string{"P1", "P2"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Owners() = %v, want %v", got, want)
	}
	if got, want := s.Funds(), []string{"Fund A - Dividend", "Fund A - Growth", "Fund B - Growth"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Funds() = %v, want %v", got, want)
	}
}

func TestFilterState_ToggleTwice(t *testing.T) {
	s := NewFilterState(fundTable())
	before := s.Funds()
	for range 2 {
		if !s.ToggleFund("Fund B - Growth") {
			t.Fatalf("ToggleFund() = false, want true")
		}
	}
	if got := s.Funds(); !reflect.DeepEqual(got, before) {
		t.Errorf("Funds() after two toggles = %v, want %v", got, before)
	}

	s.ToggleOwner("P1")
	if got := s.Owners(); !reflect.DeepEqual(got, []string{"P2"}) {
		t.Errorf("Owners() = %v, want [P2]", got)
	}
	s.ToggleOwner("P1")
	if got := s.Owners(); !reflect.DeepEqual(got, []string{"P1", "P2"}) {
		t.Errorf("Owners() = %v, want [P1 P2]", got)
	}
}

func TestFilterState_UnknownValueIgnored(t *testing.T) {
	s := NewFilterState(fundTable())
	if s.ToggleOwner("ZZZ") {
		t.Errorf("ToggleOwner(unknown) = true, want false")
	}
	if slices.Contains(s.Owners(), "ZZZ") {
		t.Errorf("unknown owner was added")
	}
	if s.ToggleGroup("Nope") {
		t.Errorf("ToggleGroup(unknown) = true, want false")
	}
}

func TestFilterState_Groups(t *testing.T) {
	s := NewFilterState(fundTable())
	s.ToggleFund("Fund A - Growth")
	s.ToggleFund("Fund A - Dividend")

	groups := s.FundGroups()
	if len(groups) != 2 || groups[0].Name != "Fund A" || groups[1].Name != "Fund B" {
		t.Fatalf("FundGroups() = %v, want Fund A and Fund B", groups)
	}
	if groups[0].Checked {
		t.Errorf("Fund A checked with no fund selected")
	}

	// toggling the unchecked group on selects both Fund A entries and leaves Fund B untouched.
	s.ToggleFund("Fund B - Growth")
	s.ToggleGroup("Fund A")
	if got, want := s.Funds(), []string{"Fund A - Dividend", "Fund A - Growth"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Funds() = %v, want %v", got, want)
	}

	// a group is checked as soon as any of its funds is.
	s.ToggleFund("Fund A - Growth")
	if g := s.FundGroups()[0]; !g.Checked {
		t.Errorf("Fund A with one selected fund is not checked")
	}
	s.ToggleGroup("Fund A")
	if got := s.Funds(); len(got) != 0 {
		t.Errorf("Funds() after unchecking Fund A = %v, want none", got)
	}

	s.SetGroup("Fund B", true)
	if got := s.Funds(); !reflect.DeepEqual(got, []string{"Fund B - Growth"}) {
		t.Errorf("Funds() after SetGroup = %v", got)
	}
}

func TestFilterState_SyncPurgesStaleValues(t *testing.T) {
	first := fundTable()
	s := NewFilterState(first)
	s.ToggleOwner("P1")
	if s.Sync(first) {
		t.Errorf("Sync(same table) = true, want false")
	}
	if got := s.Owners(); !reflect.DeepEqual(got, []string{"P2"}) {
		t.Errorf("Owners() after Sync(same) = %v, want [P2]", got)
	}

	second, _ := Normalize(RawTable{Rows: []RawRow{buy("P3", "Fund C", "1-Jan-2023", "1", "1", "1")}})
	if !s.Sync(second) {
		t.Errorf("Sync(new table) = false, want true")
	}
	if got := s.Owners(); !reflect.DeepEqual(got, []string{"P3"}) {
		t.Errorf("Owners() after Sync(new) = %v, want [P3]", got)
	}
	if s.ToggleFund("Fund A - Growth") {
		t.Errorf("stale fund can still be toggled")
	}
}

func TestFilterState_Apply(t *testing.T) {
	table := fundTable()
	s := NewFilterState(table)
	s.ToggleOwner("P2")
	s.ToggleFund("Fund A - Dividend")
	got := s.Apply(table)
	if got.Len() != 1 || got.Rows()[0].Fund != "Fund A - Growth" {
		t.Errorf("Apply() = %v, want only Fund A - Growth", got.Rows())
	}
	if got.ID() != table.ID() {
		t.Errorf("Apply() changed the table identity")
	}

	// an empty selection stays empty.
	s.ToggleOwner("P1")
	if got := s.Apply(table); got.Len() != 0 {
		t.Errorf("Apply() with no owner = %d rows, want 0", got.Len())
	}
}

func TestTransactionFilter(t *testing.T) {
	table, _ := Normalize(RawTable{Source: "a.pdf", Rows: []RawRow{
		buy("P1", "Fund A", "1-Jan-2023", "100", "10", "10"),
		buy("P1", "Fund A", "1-Feb-2023", "200", "20", "10"),
		{ColPAN: "P1", ColFund: "Fund A", ColFolio: "F-2", ColTxn: "Sell", ColDate: "1-Mar-2023", ColAmount: "(50)"},
		buy("P1", "Fund A", "bad date", "150", "15", "10"),
		buy("P1", "Fund A", "1-Apr-2023", "", "15", "10"),
	}})
	lo, hi := d("100"), d("200")
	dates := NewRange(NewDate(2023, time.January, 15), NewDate(2023, time.December, 31))

	tests := []struct {
		name   string
		filter TransactionFilter
		want   int
	}{
		{"none", TransactionFilter{}, 5},
		{"dates", TransactionFilter{Dates: &dates}, 3},
		{"amounts", TransactionFilter{Amounts: &AmountRange{Min: &lo, Max: &hi}}, 3},
		{"min only", TransactionFilter{Amounts: &AmountRange{Min: &hi}}, 1},
		{"types", TransactionFilter{Types: []TxnType{Sell}}, 1},
		{"folios", TransactionFilter{Folios: []string{"F-1"}}, 4},
		{"dates and amounts", TransactionFilter{Dates: &dates, Amounts: &AmountRange{Min: &lo}}, 1},
		{"state", TransactionFilter{State: func() *FilterState {
			s := NewFilterState(table)
			s.ToggleOwner("P1")
			return s
		}()}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Apply(table).Len(); got != tt.want {
				t.Errorf("Apply() = %d rows, want %d", got, tt.want)
			}
		})
	}
}
