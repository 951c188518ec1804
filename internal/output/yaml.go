package output

import (
	"bufio"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLWriter buffers values and writes them as one YAML document.
type YAMLWriter struct {
	w     *bufio.Writer
	items []any
	rows  bool
}

// NewYAMLWriter creates a YAML writer.
func NewYAMLWriter(w io.Writer) *YAMLWriter {
	return &YAMLWriter{
		w:     bufio.NewWriter(w),
		items: make([]any, 0),
	}
}

// Write buffers a single value.
func (w *YAMLWriter) Write(data any) error {
	w.items = append(w.items, data)
	return nil
}

// WriteAll buffers multiple values.
func (w *YAMLWriter) WriteAll(data []any) error {
	w.items = append(w.items, data...)
	return nil
}

// WriteRecord buffers a table row; rows always encode as a sequence.
func (w *YAMLWriter) WriteRecord(record []string) error {
	w.rows = true
	w.items = append(w.items, recordValue(record))
	return nil
}

// Flush encodes the buffered values with two-space indentation. A single
// value from Write is encoded directly, e.g. a catalog map.
func (w *YAMLWriter) Flush() error {
	if w.items == nil {
		return w.w.Flush()
	}

	encoder := yaml.NewEncoder(w.w)
	encoder.SetIndent(2)

	var doc any = w.items
	if len(w.items) == 1 && !w.rows {
		doc = w.items[0]
	}
	if err := encoder.Encode(doc); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}
	w.items = nil

	return w.w.Flush()
}

// Close flushes the writer.
func (w *YAMLWriter) Close() error {
	return w.Flush()
}
