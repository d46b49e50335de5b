// Package camsfolio reads CAMS mutual fund statements and values the funds bought.
//
// The pipeline is:
//   - Ingestion: an Ingester validates statement files (extension, size, PDF content,
//     password) and hands them to an Extractor, which returns RawTables of text cells.
//   - Normalization: Normalize types the raw rows into a Table of Transactions. Values
//     that cannot be read are kept as missing and reported as Gaps.
//   - Valuation: Valuate groups the Buy transactions per owner (PAN) and fund and prices
//     them with the latest NAV of a NAVSource, usually the AMFI list of package amfi.
//   - Selection: a FilterState keeps the owners and funds selected by the user, and a
//     TransactionFilter narrows transactions by date, amount, type and folio.
//   - Export: the summary and the transactions are written as CSV or as an xlsx workbook.
//
// Amounts are exact decimals in INR.
package camsfolio
