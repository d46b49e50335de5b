package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/camsfolio"
	md "github.com/nao1215/markdown"
)

// ErrorsMarkdown renders the files that could not be ingested and the data quality gaps.
// It returns an empty string when there is nothing to report.
func ErrorsMarkdown(errs []*camsfolio.FileError, gaps []camsfolio.Gap) string {
	if len(errs) == 0 && len(gaps) == 0 {
		return ""
	}
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	if len(errs) > 0 {
		doc.H2("Rejected Files")
		table := md.TableSet{Header: []string{"File", "Kind", "Reason"}}
		for _, e := range errs {
			table.Rows = append(table.Rows, []string{e.File, e.Kind(), e.Err.Error()})
		}
		doc.Table(table)
	}

	if len(gaps) > 0 {
		doc.H2("Data Quality")
		table := md.TableSet{
			Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignLeft, md.AlignLeft, md.AlignLeft},
			Header:    []string{"File", "Row", "Field", "Value", "Reason"},
		}
		for _, g := range gaps {
			table.Rows = append(table.Rows, []string{g.Source, fmt.Sprint(g.Row), g.Field, g.Value, g.Reason})
		}
		doc.Table(table)
	}
	return doc.String()
}
