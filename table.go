package camsfolio

import (
	"iter"
	"slices"

	"github.com/google/uuid"
)

// Table is the combined, typed view of every ingested statement, in upload order.
//
// Overlapping statements are not deduplicated: the same transaction uploaded twice
// appears, and counts, twice.
type Table struct {
	id   string
	rows []Transaction
}

// NewTable creates a table with a fresh identity.
func NewTable(rows ...Transaction) *Table {
	return &Table{id: uuid.NewString(), rows: rows}
}

// ID identifies this table. Every normalization produces a new identity.
func (t *Table) ID() string {
	if t == nil {
		return ""
	}
	return t.id
}

// Len returns the number of transactions.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Rows returns a copy of the transactions.
func (t *Table) Rows() []Transaction {
	if t == nil {
		return nil
	}
	return slices.Clone(t.rows)
}

// All iterates over the transactions without copying them.
func (t *Table) All() iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
		if t == nil {
			return
		}
		for _, tx := range t.rows {
			if !yield(tx) {
				return
			}
		}
	}
}

// Owners returns the sorted distinct owners.
func (t *Table) Owners() []string {
	return t.distinct(func(tx Transaction) string { return tx.Owner })
}

// Funds returns the sorted distinct fund names.
func (t *Table) Funds() []string {
	return t.distinct(func(tx Transaction) string { return tx.Fund })
}

// Folios returns the sorted distinct folio numbers.
func (t *Table) Folios() []string {
	return t.distinct(func(tx Transaction) string { return tx.Folio })
}

func (t *Table) distinct(key func(Transaction) string) []string {
	seen := make(map[string]struct{})
	var res []string
	for tx := range t.All() {
		k := key(tx)
		if _, exists := seen[k]; exists {
			continue
		}
		seen[k] = struct{}{}
		res = append(res, k)
	}
	slices.Sort(res)
	return res
}

// filter returns a table sharing t's identity with only the rows matching keep.
func (t *Table) filter(keep func(Transaction) bool) *Table {
	res := &Table{id: t.ID()}
	for tx := range t.All() {
		if keep(tx) {
			res.rows = append(res.rows, tx)
		}
	}
	return res
}
