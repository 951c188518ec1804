package tablescan

import "strings"

// DefaultCurrencyColumn is the zero-based cell index that holds the price.
const DefaultCurrencyColumn = 4

// Accumulator buffers the cells of the row currently open.
type Accumulator struct {
	row            []string
	stripCurrency  bool
	currencyColumn int
}

// NewAccumulator creates an empty row buffer. When stripCurrency is set,
// text destined for cell index currencyColumn goes through StripCurrency.
func NewAccumulator(stripCurrency bool, currencyColumn int) *Accumulator {
	return &Accumulator{
		stripCurrency:  stripCurrency,
		currencyColumn: currencyColumn,
	}
}

// Append adds one text fragment as the next cell. Fragments are never
// joined: a cell split by inline markup yields one cell per fragment.
func (a *Accumulator) Append(text string) {
	if a.stripCurrency && len(a.row) == a.currencyColumn {
		text = StripCurrency(text)
	}
	a.row = append(a.row, text)
}

// Len returns the number of cells in the open row.
func (a *Accumulator) Len() int {
	return len(a.row)
}

// Close ends the open row. It returns the cells and true when the row has
// at least one cell. The buffer is cleared either way; the returned slice
// is not reused.
func (a *Accumulator) Close() ([]string, bool) {
	row := a.row
	a.row = nil
	return row, len(row) > 0
}

// StripCurrency removes the trailing run of characters that are neither
// '.' nor an ASCII digit, e.g. "12.50 kr" becomes "12.50". Leading
// symbols are kept: "$3.50 USD" becomes "$3.50".
func StripCurrency(s string) string {
	return strings.TrimRightFunc(s, func(r rune) bool {
		return r != '.' && (r < '0' || r > '9')
	})
}
