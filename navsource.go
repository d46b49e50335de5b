package camsfolio

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// NAVEntry is the latest published net asset value of one scheme.
type NAVEntry struct {
	SchemeCode   string          `json:"scheme_code"`
	ISINGrowth   string          `json:"isin_growth"`
	ISINDivReinv string          `json:"isin_div_reinv"`
	SchemeName   string          `json:"scheme_name"`
	NAV          decimal.Decimal `json:"nav"`
	Date         Date            `json:"date"`
}

// NAVSource lists the latest NAV of every scheme. The order of the list is significant:
// fund names are matched against the first scheme that fits.
type NAVSource interface {
	NAVs() ([]NAVEntry, error)
}

// NAVList is an in-memory NAVSource.
type NAVList []NAVEntry

func (l NAVList) NAVs() ([]NAVEntry, error) { return l, nil }

// ByISIN returns the first scheme having isin as growth or dividend reinvestment ISIN.
func (l NAVList) ByISIN(isin string) (NAVEntry, bool) {
	isin = strings.TrimSpace(isin)
	if isin == "" {
		return NAVEntry{}, false
	}
	for _, e := range l {
		if strings.EqualFold(e.ISINGrowth, isin) || strings.EqualFold(e.ISINDivReinv, isin) {
			return e, true
		}
	}
	return NAVEntry{}, false
}

// SchemeCode returns the code of the scheme having isin as growth or dividend
// reinvestment ISIN.
func (l NAVList) SchemeCode(isin string) (string, bool) {
	e, ok := l.ByISIN(isin)
	return e.SchemeCode, ok
}

// navMatcher resolves fund names to NAV entries. Scheme names are lowered once.
type navMatcher struct {
	entries []NAVEntry
	lowered []string
}

func newNAVMatcher(entries []NAVEntry) *navMatcher {
	m := &navMatcher{entries: entries, lowered: make([]string, len(entries))}
	for i, e := range entries {
		m.lowered[i] = strings.ToLower(e.SchemeName)
	}
	return m
}

// match returns the first entry whose scheme name contains the fund name or the fund family.
// It is the first match, not the most specific one: "Fund A" matches "Fund AB" if listed first.
func (m *navMatcher) match(fund string) (NAVEntry, bool) {
	name := strings.ToLower(strings.TrimSpace(fund))
	family := strings.ToLower(Family(fund))
	for i, scheme := range m.lowered {
		if name != "" && strings.Contains(scheme, name) {
			return m.entries[i], true
		}
		if family != "" && strings.Contains(scheme, family) {
			return m.entries[i], true
		}
	}
	return NAVEntry{}, false
}

// ErrEmptyNAVList is kept in a Valuation when the NAV source returned no entry.
var ErrEmptyNAVList = errors.New("NAV source returned no scheme")
