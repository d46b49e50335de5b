package camsfolio

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Column names produced by statement extractors.
const (
	ColPAN          = "pan"
	ColFolio        = "folio_num"
	ColFund         = "fund_name"
	ColISIN         = "isin"
	ColSchemeCode   = "scheme_code"
	ColDate         = "date"
	ColTxn          = "txn"
	ColAmount       = "amount"
	ColUnits        = "units"
	ColNAV          = "nav"
	ColBalanceUnits = "balance_units"
	ColSourceFile   = "source_file"
)

// RawRow is one extracted statement line, keyed by column name. Values are untyped text.
type RawRow map[string]string

// get returns the trimmed value of a column.
func (r RawRow) get(col string) string { return strings.TrimSpace(r[col]) }

// RawTable is what an Extractor returns for one statement file.
type RawTable struct {
	Source string
	Rows   []RawRow
}

// Normalize concatenates raw tables in order and types their columns.
//
// Rows without a fund name are dropped. Unparseable dates and numbers are kept as
// missing values. Both are reported as gaps.
func Normalize(tables ...RawTable) (*Table, []Gap) {
	var (
		rows []Transaction
		gaps []Gap
	)
	for _, raw := range tables {
		for i, r := range raw.Rows {
			n := rowNormalizer{source: raw.Source, row: i + 1, raw: r}
			if tx, ok := n.transaction(); ok {
				rows = append(rows, tx)
			}
			gaps = append(gaps, n.gaps...)
		}
	}
	if len(gaps) > 0 {
		logrus.WithField("gaps", len(gaps)).Debug("statement rows with data quality gaps")
	}
	return NewTable(rows...), gaps
}

type rowNormalizer struct {
	source string
	row    int
	raw    RawRow
	gaps   []Gap
}

func (n *rowNormalizer) gap(field, value, reason string) {
	n.gaps = append(n.gaps, Gap{Source: n.source, Row: n.row, Field: field, Value: value, Reason: reason})
}

func (n *rowNormalizer) transaction() (Transaction, bool) {
	fund := n.raw.get(ColFund)
	if fund == "" {
		n.gap(ColFund, "", "missing fund name, row dropped")
		return Transaction{}, false
	}

	source := n.raw.get(ColSourceFile)
	if source == "" {
		source = n.source
	}
	label := n.raw.get(ColTxn)
	tx := Transaction{
		Owner:      n.raw.get(ColPAN),
		Folio:      n.raw.get(ColFolio),
		Fund:       fund,
		ISIN:       n.raw.get(ColISIN),
		SchemeCode: n.raw.get(ColSchemeCode),
		Type:       ParseTxnType(label),
		Label:      label,
		Source:     source,
	}

	if str := n.raw.get(ColDate); str == "" {
		n.gap(ColDate, "", "missing date")
	} else if d, err := ParseStatementDate(str); err != nil {
		n.gap(ColDate, str, err.Error())
	} else {
		tx.Date = d
	}

	tx.Amount = n.number(ColAmount)
	tx.Units = n.number(ColUnits)
	tx.Price = n.number(ColNAV)
	tx.BalanceUnits = n.number(ColBalanceUnits)
	return tx, true
}

// number coerces a column to a decimal. An empty cell is silently missing, a
// non numeric one is missing and reported.
func (n *rowNormalizer) number(col string) decimal.NullDecimal {
	str := n.raw.get(col)
	if str == "" {
		return decimal.NullDecimal{}
	}
	d, err := ParseAmount(str)
	if err != nil {
		n.gap(col, str, err.Error())
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// ParseAmount parses a statement number. Thousands separators are ignored and a
// parenthesized value is negative: "(1,234.50)" is -1234.5.
func ParseAmount(str string) (decimal.Decimal, error) {
	s := strings.TrimSpace(str)
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero, fmt.Errorf("not a number: %q", str)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("not a number: %q", str)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}
