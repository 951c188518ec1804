package output

import (
	"bufio"
	"encoding/json"
	"io"
)

// JSONWriter buffers values and writes them as one JSON document on Flush.
type JSONWriter struct {
	w      *bufio.Writer
	pretty bool
	indent string
	items  []any
	rows   bool
}

// NewJSONWriter creates a JSON writer.
func NewJSONWriter(w io.Writer, pretty bool, indent string) *JSONWriter {
	return &JSONWriter{
		w:      bufio.NewWriter(w),
		pretty: pretty,
		indent: indent,
		items:  make([]any, 0),
	}
}

// Write buffers a single value.
func (w *JSONWriter) Write(data any) error {
	w.items = append(w.items, data)
	return nil
}

// WriteAll buffers multiple values.
func (w *JSONWriter) WriteAll(data []any) error {
	w.items = append(w.items, data...)
	return nil
}

// WriteRecord buffers a table row. Once a row has been written the
// document is always an array of rows.
func (w *JSONWriter) WriteRecord(record []string) error {
	w.rows = true
	w.items = append(w.items, recordValue(record))
	return nil
}

// Flush writes the buffered values. A single value written with Write is
// emitted as-is; anything else becomes an array. The buffer is emptied so
// a following Close writes nothing.
func (w *JSONWriter) Flush() error {
	if w.items == nil {
		return w.w.Flush()
	}

	var doc any = w.items
	if len(w.items) == 1 && !w.rows {
		doc = w.items[0]
	}

	var output []byte
	var err error
	if w.pretty {
		output, err = json.MarshalIndent(doc, "", w.indent)
	} else {
		output, err = json.Marshal(doc)
	}
	if err != nil {
		return err
	}

	if _, err := w.w.Write(output); err != nil {
		return err
	}
	if _, err := w.w.WriteString("\n"); err != nil {
		return err
	}
	w.items = nil

	return w.w.Flush()
}

// Close flushes the writer.
func (w *JSONWriter) Close() error {
	return w.Flush()
}

// JSONLWriter writes newline-delimited JSON (JSONL), one line per value.
type JSONLWriter struct {
	w   *bufio.Writer
	enc *json.Encoder
}

// NewJSONLWriter creates a JSONL writer.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	return &JSONLWriter{w: bw, enc: enc}
}

// Write writes a single value as a JSON line and flushes it.
func (w *JSONLWriter) Write(data any) error {
	if err := w.enc.Encode(data); err != nil {
		return err
	}
	return w.w.Flush()
}

// WriteAll writes multiple values as JSON lines.
func (w *JSONLWriter) WriteAll(data []any) error {
	for _, item := range data {
		if err := w.Write(item); err != nil {
			return err
		}
	}
	return nil
}

// WriteRecord writes a table row as a JSON array line.
func (w *JSONLWriter) WriteRecord(record []string) error {
	return w.Write(record)
}

// Flush flushes the buffer.
func (w *JSONLWriter) Flush() error {
	return w.w.Flush()
}

// Close flushes the writer.
func (w *JSONLWriter) Close() error {
	return w.Flush()
}
