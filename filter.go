package camsfolio

import (
	"maps"
	"slices"

	"github.com/shopspring/decimal"
)

// FilterState is a user's owner and fund selection over one table.
//
// Both sets start with every value of the table and are then changed one element,
// or one fund group, at a time. They only ever hold values present in the table;
// switching to a table with another identity starts over.
type FilterState struct {
	tableID   string
	allOwners map[string]struct{}
	allFunds  map[string]struct{}
	owners    map[string]struct{}
	funds     map[string]struct{}
}

// NewFilterState selects every owner and fund of t.
func NewFilterState(t *Table) *FilterState {
	s := &FilterState{}
	s.Reset(t)
	return s
}

// Reset selects every owner and fund of t again.
func (s *FilterState) Reset(t *Table) {
	s.tableID = t.ID()
	s.allOwners = setOf(t.Owners())
	s.allFunds = setOf(t.Funds())
	s.owners = maps.Clone(s.allOwners)
	s.funds = maps.Clone(s.allFunds)
}

// Sync resets the state if t is not the table it was built for, and reports whether it did.
func (s *FilterState) Sync(t *Table) bool {
	if s.tableID == t.ID() {
		return false
	}
	s.Reset(t)
	return true
}

// TableID returns the identity of the table the state was built for.
func (s *FilterState) TableID() string { return s.tableID }

// ToggleOwner adds or removes owner from the selection. Unknown owners are ignored
// and ToggleOwner returns false.
func (s *FilterState) ToggleOwner(owner string) bool { return toggle(s.allOwners, s.owners, owner) }

// ToggleFund adds or removes fund from the selection. Unknown funds are ignored
// and ToggleFund returns false.
func (s *FilterState) ToggleFund(fund string) bool { return toggle(s.allFunds, s.funds, fund) }

// SetOwner selects or deselects owner.
func (s *FilterState) SetOwner(owner string, on bool) bool {
	return set(s.allOwners, s.owners, owner, on)
}

// SetFund selects or deselects fund.
func (s *FilterState) SetFund(fund string, on bool) bool { return set(s.allFunds, s.funds, fund, on) }

// Owners returns the selected owners, sorted.
func (s *FilterState) Owners() []string { return slices.Sorted(maps.Keys(s.owners)) }

// Funds returns the selected funds, sorted.
func (s *FilterState) Funds() []string { return slices.Sorted(maps.Keys(s.funds)) }

// AllOwners returns every owner of the table, sorted.
func (s *FilterState) AllOwners() []string { return slices.Sorted(maps.Keys(s.allOwners)) }

// OwnerSelected reports whether owner is selected.
func (s *FilterState) OwnerSelected(owner string) bool {
	_, ok := s.owners[owner]
	return ok
}

// FundSelected reports whether fund is selected.
func (s *FilterState) FundSelected(fund string) bool {
	_, ok := s.funds[fund]
	return ok
}

// Selects is the filter predicate: owner and fund are both selected.
func (s *FilterState) Selects(owner, fund string) bool {
	return s.OwnerSelected(owner) && s.FundSelected(fund)
}

// Apply returns the transactions of t selected by s.
func (s *FilterState) Apply(t *Table) *Table {
	return t.filter(func(tx Transaction) bool { return s.Selects(tx.Owner, tx.Fund) })
}

// FundGroup is a fund family and its funds.
type FundGroup struct {
	Name  string   `json:"name"`
	Funds []string `json:"funds"`
	// Checked is true when any fund of the group is selected, not all of them.
	Checked bool `json:"checked"`
}

// FundGroups buckets the table funds by family, sorted by family name.
func (s *FilterState) FundGroups() []FundGroup {
	byName := make(map[string][]string)
	for fund := range s.allFunds {
		name := Family(fund)
		byName[name] = append(byName[name], fund)
	}
	groups := make([]FundGroup, 0, len(byName))
	for _, name := range slices.Sorted(maps.Keys(byName)) {
		funds := byName[name]
		slices.Sort(funds)
		g := FundGroup{Name: name, Funds: funds}
		for _, f := range funds {
			if s.FundSelected(f) {
				g.Checked = true
				break
			}
		}
		groups = append(groups, g)
	}
	return groups
}

// ToggleGroup deselects every fund of a checked group, and selects every fund of an
// unchecked one. It returns false for an unknown group.
func (s *FilterState) ToggleGroup(name string) bool {
	g, ok := s.group(name)
	if !ok {
		return false
	}
	return s.SetGroup(name, !g.Checked)
}

// SetGroup selects or deselects every fund of a group.
func (s *FilterState) SetGroup(name string, on bool) bool {
	g, ok := s.group(name)
	if !ok {
		return false
	}
	for _, f := range g.Funds {
		set(s.allFunds, s.funds, f, on)
	}
	return true
}

func (s *FilterState) group(name string) (FundGroup, bool) {
	for _, g := range s.FundGroups() {
		if g.Name == name {
			return g, true
		}
	}
	return FundGroup{}, false
}

func setOf(values []string) map[string]struct{} {
	res := make(map[string]struct{}, len(values))
	for _, v := range values {
		res[v] = struct{}{}
	}
	return res
}

func toggle(all, selected map[string]struct{}, v string) bool {
	_, on := selected[v]
	return set(all, selected, v, !on)
}

func set(all, selected map[string]struct{}, v string, on bool) bool {
	if _, known := all[v]; !known {
		return false
	}
	if on {
		selected[v] = struct{}{}
	} else {
		delete(selected, v)
	}
	return true
}

// AmountRange is a closed range of transaction amounts. A nil bound is open.
type AmountRange struct {
	Min, Max *decimal.Decimal
}

// Contains reports whether amount is within the range. A missing amount never is.
func (r AmountRange) Contains(amount decimal.NullDecimal) bool {
	if !amount.Valid {
		return false
	}
	if r.Min != nil && amount.Decimal.LessThan(*r.Min) {
		return false
	}
	if r.Max != nil && amount.Decimal.GreaterThan(*r.Max) {
		return false
	}
	return true
}

// TransactionFilter narrows the owner/fund selection with optional date, amount,
// transaction type and folio conditions. Nil or empty conditions match everything.
type TransactionFilter struct {
	State   *FilterState
	Dates   *Range
	Amounts *AmountRange
	Types   []TxnType
	Folios  []string
}

// Match reports whether tx passes every condition.
func (f TransactionFilter) Match(tx Transaction) bool {
	if f.State != nil && !f.State.Selects(tx.Owner, tx.Fund) {
		return false
	}
	if f.Dates != nil && !f.Dates.Contains(tx.Date) {
		return false
	}
	if f.Amounts != nil && !f.Amounts.Contains(tx.Amount) {
		return false
	}
	if len(f.Types) > 0 && !slices.Contains(f.Types, tx.Type) {
		return false
	}
	if len(f.Folios) > 0 && !slices.Contains(f.Folios, tx.Folio) {
		return false
	}
	return true
}

// Apply returns the transactions of t matching f.
func (f TransactionFilter) Apply(t *Table) *Table { return t.filter(f.Match) }
