package amfi

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/etnz/camsfolio"
	"github.com/shopspring/decimal"
)

const navAll = `Scheme Code;ISIN Div Payout/ ISIN Growth;ISIN Div Reinvestment;Scheme Name;Net Asset Value;Date

Open Ended Schemes(Equity Scheme - Large Cap Fund)

Example Mutual Fund

120503;INF000000001;-;Example Fund - Direct Plan - Growth;12.0000;17-Oct-2025
120504;-;INF000000002;Example Fund - Direct Plan - IDCW;N.A.;17-Oct-2025
120505;INF000000003;INF000000004;Other "Quoted" Fund;7.5;bad-date
`

func TestParse(t *testing.T) {
	list, err := Parse(strings.NewReader(navAll))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("Parse() = %d entries, want 2: %v", len(list), list)
	}
	first := list[0]
	if first.SchemeCode != "120503" || first.ISINGrowth != "INF000000001" || first.ISINDivReinv != "" {
		t.Errorf("first entry = %+v", first)
	}
	if !first.NAV.Equal(decimal.RequireFromString("12")) {
		t.Errorf("first NAV = %v, want 12", first.NAV)
	}
	if first.Date != camsfolio.NewDate(2025, time.October, 17) {
		t.Errorf("first date = %v, want 2025-10-17", first.Date)
	}
	second := list[1]
	if second.SchemeName != `Other "Quoted" Fund` || !second.Date.IsZero() {
		t.Errorf("second entry = %+v", second)
	}
	if code, ok := list.SchemeCode("INF000000004"); !ok || code != "120505" {
		t.Errorf("SchemeCode() = %q, %v, want 120505", code, ok)
	}
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "NAVAll.txt")
	if err := os.WriteFile(path, []byte(navAll), 0o600); err != nil {
		t.Fatal(err)
	}
	var src camsfolio.NAVSource = File(path)
	list, err := src.NAVs()
	if err != nil || len(list) != 2 {
		t.Errorf("File.NAVs() = %d entries, %v, want 2", len(list), err)
	}

	if _, err := File(filepath.Join(t.TempDir(), "missing.txt")).NAVs(); err == nil {
		t.Errorf("File.NAVs() on a missing file succeeded")
	}
	if _, err := File("").NAVs(); err == nil {
		t.Errorf("File(\"\").NAVs() succeeded")
	}
}
