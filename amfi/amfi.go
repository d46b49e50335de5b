// Package amfi reads the NAV list published by the Association of Mutual Funds in India.
//
// The file (NAVAll.txt / NAVopen.txt) is a ';' separated list of schemes, interleaved
// with blank lines, category titles and fund house names:
//
//	Scheme Code;ISIN Div Payout/ ISIN Growth;ISIN Div Reinvestment;Scheme Name;Net Asset Value;Date
//
//	Open Ended Schemes(Equity Scheme - Large Cap Fund)
//
//	Example Mutual Fund
//
//	120503;INF000000001;-;Example Fund - Direct Plan - Growth;12.0000;17-Oct-2025
package amfi

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/camsfolio"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	colSchemeCode = iota
	colISINGrowth
	colISINDivReinv
	colSchemeName
	colNAV
	colDate
	columns
)

// Parse reads an AMFI NAV list. Lines that are not schemes are skipped, as are
// schemes without a numeric NAV ("N.A.").
func Parse(r io.Reader) (camsfolio.NAVList, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1 // titles have a single field
	reader.LazyQuotes = true

	var (
		list    camsfolio.NAVList
		skipped int
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read NAV list: %w", err)
		}
		if len(record) < columns || strings.EqualFold(strings.TrimSpace(record[colSchemeCode]), "Scheme Code") {
			continue
		}
		nav, err := decimal.NewFromString(strings.TrimSpace(record[colNAV]))
		if err != nil {
			skipped++
			continue
		}
		e := camsfolio.NAVEntry{
			SchemeCode:   strings.TrimSpace(record[colSchemeCode]),
			ISINGrowth:   isin(record[colISINGrowth]),
			ISINDivReinv: isin(record[colISINDivReinv]),
			SchemeName:   strings.TrimSpace(record[colSchemeName]),
			NAV:          nav,
		}
		// a bad date does not make the NAV unusable.
		e.Date, _ = camsfolio.ParseStatementDate(record[colDate])
		list = append(list, e)
	}
	if skipped > 0 {
		logrus.WithField("skipped", skipped).Debug("schemes without NAV")
	}
	return list, nil
}

// isin normalizes the "-" placeholder to empty.
func isin(s string) string {
	s = strings.TrimSpace(s)
	if s == "-" {
		return ""
	}
	return s
}

// Load reads the AMFI NAV list stored at path.
func Load(path string) (camsfolio.NAVList, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	list, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return list, nil
}

// File is a NAVSource reading the AMFI NAV list at a path on every call, so that
// a refreshed download is picked up.
type File string

func (f File) NAVs() ([]camsfolio.NAVEntry, error) {
	if f == "" {
		return nil, errors.New("no NAV file configured")
	}
	return Load(string(f))
}
