package renderer

import (
	"bytes"
	"io"

	"github.com/shopspring/decimal"
)

// ConditionalBlock let you fully write a block and decide at the end to print it or not.
// If the block function returns true, the content is printed to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	bw := &bytes.Buffer{}
	if block(bw) {
		io.Copy(w, bw)
	}
}

// missing is displayed in place of a value that could not be read.
const missing = "-"

func nullDecimal(d decimal.NullDecimal, places int32) string {
	if !d.Valid {
		return missing
	}
	return d.Decimal.StringFixed(places)
}
