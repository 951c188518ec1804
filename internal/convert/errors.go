// Package convert runs the two conversions end to end: an HTML export to
// delimited records, and a record file to a POS item catalog.
package convert

import (
	"fmt"
	"strings"

	"github.com/jmylchreest/posbridge/internal/output"
)

// File operations named in FileError.
const (
	OpRead  = "read from"
	OpWrite = "write to"
)

// FileError is a failure to read or create a file.
type FileError struct {
	Path string
	Op   string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("failed to %s file %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// Record operations named in RecordError.
const (
	RecordWrite     = "write CSV"
	RecordRead      = "read CSV"
	RecordSerialize = "serialize YAML"
)

// RecordWriteOp names the write operation for records in format, e.g.
// "write JSONL". It equals RecordWrite for CSV.
func RecordWriteOp(format output.Format) string {
	if format == "" {
		format = output.FormatCSV
	}
	return "write " + strings.ToUpper(string(format))
}

// RecordError is a failure to encode or decode records in a file that
// was opened successfully.
type RecordError struct {
	Path string
	Op   string
	Err  error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("failed to %s file %s: %v", e.Op, e.Path, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }
