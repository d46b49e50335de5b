package camsfolio

import (
	"strings"

	"github.com/shopspring/decimal"
)

// TxnType classifies a transaction's effect on holdings.
type TxnType int

const (
	// Other is any statement line that is neither a purchase, a redemption nor a dividend.
	Other TxnType = iota
	Buy
	Sell
	Dividend
)

func (t TxnType) String() string {
	switch t {
	case Buy:
		return "Buy"
	case Sell:
		return "Sell"
	case Dividend:
		return "Dividend"
	default:
		return "Other"
	}
}

// ParseTxnType maps a statement label to a TxnType. Matching is case-insensitive,
// unknown labels map to Other.
func ParseTxnType(s string) TxnType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buy":
		return Buy
	case "sell":
		return Sell
	case "dividend":
		return Dividend
	default:
		return Other
	}
}

// Transaction is one typed statement line.
//
// Numeric fields are never kept as text: a value that was absent or did not parse
// is an invalid decimal.NullDecimal.
type Transaction struct {
	Owner      string // PAN
	Folio      string
	Fund       string
	ISIN       string
	SchemeCode string
	Type       TxnType
	Label      string // raw txn label, kept when Type is Other
	Date       Date   // zero when unparseable

	Amount       decimal.NullDecimal
	Units        decimal.NullDecimal
	Price        decimal.NullDecimal // NAV at transaction time
	BalanceUnits decimal.NullDecimal

	Source string // originating statement file
}

// TypeLabel returns the label to display for the transaction type.
func (tx Transaction) TypeLabel() string {
	if tx.Type == Other && tx.Label != "" {
		return tx.Label
	}
	return tx.Type.String()
}

// Family returns the fund family: the fund name up to its first "-", trimmed.
// "Example Fund - Growth" is in the "Example Fund" family.
func Family(fund string) string {
	family, _, _ := strings.Cut(fund, "-")
	return strings.TrimSpace(family)
}
