package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"unicode/utf8"
)

// FieldCountError is returned when a record's length differs from the
// first record written and the writer is not flexible.
type FieldCountError struct {
	Record   int // one-based position of the rejected record
	Got      int
	Expected int
}

func (e *FieldCountError) Error() string {
	return fmt.Sprintf("found record %d with %d fields, but the previous record has %d fields",
		e.Record, e.Got, e.Expected)
}

// CSVWriter writes one delimited record per row. Each record is flushed
// as soon as it is written.
type CSVWriter struct {
	w        *csv.Writer
	flexible bool
	fields   int
	count    int
}

// NewCSVWriter creates a CSV writer.
func NewCSVWriter(w io.Writer, flexible bool, comma rune) (*CSVWriter, error) {
	if comma == '"' || comma == '\r' || comma == '\n' || comma == utf8.RuneError {
		return nil, fmt.Errorf("invalid CSV delimiter %q", comma)
	}
	cw := csv.NewWriter(w)
	if comma != 0 {
		cw.Comma = comma
	}
	return &CSVWriter{w: cw, flexible: flexible}, nil
}

// WriteRecord writes and flushes a single row.
func (w *CSVWriter) WriteRecord(record []string) error {
	if !w.flexible {
		if w.count > 0 && len(record) != w.fields {
			return &FieldCountError{Record: w.count + 1, Got: len(record), Expected: w.fields}
		}
		w.fields = len(record)
	}

	if err := w.w.Write(record); err != nil {
		return err
	}
	w.count++

	w.w.Flush()
	return w.w.Error()
}

// Write writes data, which must be a []string row.
func (w *CSVWriter) Write(data any) error {
	record, ok := data.([]string)
	if !ok {
		return fmt.Errorf("csv output expects []string rows, got %T", data)
	}
	return w.WriteRecord(record)
}

// WriteAll writes each element of data as a row.
func (w *CSVWriter) WriteAll(data []any) error {
	for _, item := range data {
		if err := w.Write(item); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes buffered records.
func (w *CSVWriter) Flush() error {
	w.w.Flush()
	return w.w.Error()
}

// Close flushes the writer.
func (w *CSVWriter) Close() error {
	return w.Flush()
}

// Count returns the number of records written.
func (w *CSVWriter) Count() int {
	return w.count
}
