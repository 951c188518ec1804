package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jmylchreest/posbridge/internal/logger"
	"github.com/jmylchreest/posbridge/internal/output"
	"github.com/jmylchreest/posbridge/pkg/catalog"
)

// CatalogOptions configures one records-to-catalog run.
type CatalogOptions struct {
	Input  string // CSV file with a header row
	Output string // file path, or "-" for stdout
	Fields catalog.Fields
	Format output.Format // yaml (default) or json

	Stdout io.Writer
}

// BuildCatalog reads opts.Input, maps every record to a catalog item and
// writes the keyed items as a single document. It returns the number of
// distinct items written. Nothing is created at opts.Output unless the
// whole input was read successfully.
func BuildCatalog(ctx context.Context, opts CatalogOptions) (int, error) {
	format := opts.Format
	if format == "" {
		format = output.FormatYAML
	}
	if format != output.FormatYAML && format != output.FormatJSON {
		return 0, fmt.Errorf("unsupported catalog format: %s (use yaml or json)", format)
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	src, err := os.Open(opts.Input) //#nosec G304 -- CLI tool reads user-specified input file
	if err != nil {
		return 0, &FileError{Path: opts.Input, Op: OpRead, Err: err}
	}
	defer func() { _ = src.Close() }()

	items, err := catalog.Build(src, opts.Fields)
	if err != nil {
		var mce *catalog.MissingColumnError
		if errors.As(err, &mce) {
			return 0, err
		}
		return 0, &RecordError{Path: opts.Input, Op: RecordRead, Err: err}
	}
	logger.Debug("catalog built", "input", opts.Input, "items", len(items))

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	dst, closeDst, err := openOutput(opts.Output, opts.Stdout)
	if err != nil {
		return 0, err
	}

	w, err := output.NewWriter(dst, format)
	if err != nil {
		_ = closeDst()
		return 0, err
	}
	if err := w.Write(items); err != nil {
		_ = closeDst()
		return 0, &RecordError{Path: opts.Output, Op: RecordSerialize, Err: err}
	}
	if err := w.Close(); err != nil {
		_ = closeDst()
		return 0, &RecordError{Path: opts.Output, Op: RecordSerialize, Err: err}
	}
	if err := closeDst(); err != nil {
		return 0, &FileError{Path: opts.Output, Op: OpWrite, Err: err}
	}

	return len(items), nil
}
