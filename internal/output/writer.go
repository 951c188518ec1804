// Package output writes extracted rows and catalogs in the supported
// serialisation formats.
package output

import (
	"fmt"
	"io"

	"github.com/jmylchreest/posbridge/pkg/tablescan"
)

// Format represents output format types.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
)

// Formats lists every supported format, in the order shown in help text.
var Formats = []Format{FormatCSV, FormatJSON, FormatJSONL, FormatYAML}

// Valid reports whether f is a supported format.
func (f Format) Valid() bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

// Writer handles output serialization.
type Writer interface {
	// Write outputs a single value.
	Write(data any) error

	// WriteAll outputs multiple values.
	WriteAll(data []any) error

	// WriteRecord outputs one table row.
	WriteRecord(record []string) error

	// Flush ensures all data is written.
	Flush() error

	// Close flushes. It does not close the underlying io.Writer.
	Close() error
}

var (
	_ tablescan.RecordSink = Writer(nil)
	_ Writer               = (*CSVWriter)(nil)
	_ Writer               = (*JSONWriter)(nil)
	_ Writer               = (*JSONLWriter)(nil)
	_ Writer               = (*YAMLWriter)(nil)
)

// WriterOption configures a writer.
type WriterOption func(*writerConfig)

type writerConfig struct {
	pretty   bool
	indent   string
	flexible bool
	comma    rune
}

// WithPretty enables pretty-printing (JSON only).
func WithPretty(enabled bool) WriterOption {
	return func(c *writerConfig) {
		c.pretty = enabled
	}
}

// WithIndent sets the indentation string (JSON only).
func WithIndent(indent string) WriterOption {
	return func(c *writerConfig) {
		c.indent = indent
	}
}

// WithFlexible allows CSV records with differing field counts.
func WithFlexible(enabled bool) WriterOption {
	return func(c *writerConfig) {
		c.flexible = enabled
	}
}

// WithDelimiter sets the CSV field delimiter.
func WithDelimiter(comma rune) WriterOption {
	return func(c *writerConfig) {
		c.comma = comma
	}
}

// NewWriter creates a writer for the specified format.
func NewWriter(w io.Writer, format Format, opts ...WriterOption) (Writer, error) {
	cfg := &writerConfig{
		pretty: true,
		indent: "  ",
		comma:  ',',
	}
	for _, opt := range opts {
		opt(cfg)
	}

	switch format {
	case FormatCSV, "":
		return NewCSVWriter(w, cfg.flexible, cfg.comma)
	case FormatJSON:
		return NewJSONWriter(w, cfg.pretty, cfg.indent), nil
	case FormatJSONL:
		return NewJSONLWriter(w), nil
	case FormatYAML:
		return NewYAMLWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// recordValue converts a row to the value the structured writers encode.
// The copy keeps buffered writers independent of the caller's slice.
func recordValue(record []string) []string {
	out := make([]string, len(record))
	copy(out, record)
	return out
}
