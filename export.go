package camsfolio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Workbook sheet names.
const (
	SummarySheet      = "Investment Summary"
	TransactionsSheet = "All Transactions"
)

var summaryHeader = []string{
	"pan", "fund_name", "amount_invested", "total_units", "avg_price", "current_price",
	"scheme_name", "scheme_code", "current_value", "unrealized_gain", "return_percentage",
}

var transactionHeader = []string{
	ColPAN, ColFolio, ColFund, ColISIN, ColSchemeCode, ColDate, ColTxn,
	ColAmount, ColUnits, ColNAV, ColBalanceUnits, ColSourceFile,
}

// summaryRecord returns the cells of r. Values are strings, decimals, float64 or nil.
func summaryRecord(r SummaryRow) []any {
	return []any{
		r.Owner, r.Fund,
		r.Invested.Decimal(),
		r.Units.Decimal(),
		r.AvgPrice.Decimal(),
		r.CurrentPrice.Decimal(),
		r.SchemeName, r.SchemeCode,
		r.CurrentValue.Decimal(),
		r.Gain.Decimal(),
		float64(r.Return),
	}
}

func transactionRecord(tx Transaction) []any {
	var date any
	if !tx.Date.IsZero() {
		date = tx.Date.String()
	}
	return []any{
		tx.Owner, tx.Folio, tx.Fund, tx.ISIN, tx.SchemeCode, date, tx.TypeLabel(),
		nullDecimal(tx.Amount), nullDecimal(tx.Units), nullDecimal(tx.Price), nullDecimal(tx.BalanceUnits),
		tx.Source,
	}
}

func nullDecimal(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal
}

// csvCell formats a cell for CSV. Decimals are written exactly, missing values are empty.
func csvCell(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case decimal.Decimal:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

func writeCSV(w io.Writer, header []string, records [][]any) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	line := make([]string, len(header))
	for _, rec := range records {
		for i, v := range rec {
			line[i] = csvCell(v)
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummaryCSV writes the summary rows as UTF-8 CSV with a header line.
func WriteSummaryCSV(w io.Writer, rows []SummaryRow) error {
	records := make([][]any, len(rows))
	for i, r := range rows {
		records[i] = summaryRecord(r)
	}
	return writeCSV(w, summaryHeader, records)
}

// WriteTransactionsCSV writes every transaction of t as UTF-8 CSV with a header line.
func WriteTransactionsCSV(w io.Writer, t *Table) error {
	var records [][]any
	for tx := range t.All() {
		records = append(records, transactionRecord(tx))
	}
	return writeCSV(w, transactionHeader, records)
}

// WriteWorkbook writes an xlsx workbook with the summary and transactions sheets.
func WriteWorkbook(w io.Writer, rows []SummaryRow, t *Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(TransactionsSheet); err != nil {
		return err
	}

	summary := make([][]any, len(rows))
	for i, r := range rows {
		summary[i] = summaryRecord(r)
	}
	if err := writeSheet(f, SummarySheet, summaryHeader, summary); err != nil {
		return err
	}

	var txs [][]any
	for tx := range t.All() {
		txs = append(txs, transactionRecord(tx))
	}
	if err := writeSheet(f, TransactionsSheet, transactionHeader, txs); err != nil {
		return err
	}
	return f.Write(w)
}

func writeSheet(f *excelize.File, sheet string, header []string, records [][]any) error {
	cells := make([]any, len(header))
	for i, h := range header {
		cells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &cells); err != nil {
		return fmt.Errorf("%s header: %w", sheet, err)
	}
	row := make([]any, len(header))
	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		// excel stores numbers as float64
		for j, v := range rec {
			if d, ok := v.(decimal.Decimal); ok {
				v = d.InexactFloat64()
			}
			row[j] = v
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
