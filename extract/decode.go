package extract

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/camsfolio"
)

// DecodeCSV reads rows from CSV with a header line. Column names are lower cased.
func DecodeCSV(r io.Reader) ([]camsfolio.RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	for i, h := range header {
		header[i] = columnName(h)
	}

	var rows []camsfolio.RawRow
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		row := make(camsfolio.RawRow, len(header))
		for i, v := range record {
			if i < len(header) {
				row[header[i]] = v
			}
		}
		rows = append(rows, row)
	}
}

// DecodeJSON reads rows from a JSON document. selector is a jsonpath expression
// designating the array of row objects ("$" when empty, "$.transactions" for instance).
func DecodeJSON(r io.Reader, selector string) ([]camsfolio.RawRow, error) {
	if selector == "" {
		selector = "$"
	}
	dec := json.NewDecoder(r)
	dec.UseNumber() // keep amounts exact
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	jval, err := jsonpath.Get(selector, doc)
	if err != nil {
		return nil, fmt.Errorf("error selecting %q: %w", selector, err)
	}

	var items []any
	switch v := jval.(type) {
	case []any:
		items = v
	case map[string]any:
		items = []any{v}
	case nil:
		return nil, nil
	default:
		return nil, fmt.Errorf("%q selects a %T, want an array of objects", selector, jval)
	}

	rows := make([]camsfolio.RawRow, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("row %d is a %T, want an object", i+1, item)
		}
		row := make(camsfolio.RawRow, len(obj))
		for k, v := range obj {
			row[columnName(k)] = cell(v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func columnName(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// cell renders a JSON value as the text an extractor would have printed.
func cell(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}
