package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jmylchreest/posbridge/internal/logger"
	"github.com/jmylchreest/posbridge/internal/output"
	"github.com/jmylchreest/posbridge/pkg/fetcher"
	"github.com/jmylchreest/posbridge/pkg/tablescan"
	"github.com/jmylchreest/posbridge/pkg/tagstream"
)

// Stdio is the path that selects stdout for output.
const Stdio = "-"

// ExtractOptions configures one HTML-to-records run.
type ExtractOptions struct {
	Input  string // file path or http(s) URL
	Output string // file path, or "-" for stdout

	Format    output.Format
	Flexible  bool // allow rows with differing field counts (CSV)
	Delimiter rune // CSV delimiter, default ','

	StripCurrency  bool
	CurrencyColumn *int // nil selects tablescan.DefaultCurrencyColumn
	ContainerClass string

	Fetch   fetcher.Options
	Static  fetcher.StaticConfig
	Fetcher fetcher.Fetcher // overrides the fetcher picked from Input

	// Stdout receives output when Output is "-". Defaults to os.Stdout.
	Stdout io.Writer
}

// Stats summarises a completed run.
type Stats struct {
	Rows       int
	InputBytes int
	Duration   time.Duration
}

// ExtractTable reads the document at opts.Input, scans its price table
// and writes one record per non-empty row to opts.Output. Rows are written
// as they close, so a failure part-way leaves earlier rows on disk.
func ExtractTable(ctx context.Context, opts ExtractOptions) (Stats, error) {
	start := time.Now()
	var stats Stats

	format := opts.Format
	if format == "" {
		format = output.FormatCSV
	}
	if !format.Valid() {
		return stats, fmt.Errorf("unsupported output format: %s", format)
	}

	f := opts.Fetcher
	if f == nil {
		f = fetcher.ForLocation(opts.Input, opts.Static)
	}
	defer func() { _ = f.Close() }()

	log := logger.With("input", opts.Input, "fetcher", f.Type())
	log.Debug("reading input")

	content, err := f.Fetch(ctx, opts.Input, opts.Fetch)
	if err != nil {
		return stats, &FileError{Path: opts.Input, Op: OpRead, Err: err}
	}
	stats.InputBytes = content.Size()

	dst, closeDst, err := openOutput(opts.Output, opts.Stdout)
	if err != nil {
		return stats, err
	}

	wopts := []output.WriterOption{output.WithFlexible(opts.Flexible)}
	if opts.Delimiter != 0 {
		wopts = append(wopts, output.WithDelimiter(opts.Delimiter))
	}
	w, err := output.NewWriter(dst, format, wopts...)
	if err != nil {
		_ = closeDst()
		return stats, err
	}

	sink := tablescan.RecordSinkFunc(func(record []string) error {
		if err := w.WriteRecord(record); err != nil {
			return &RecordError{Path: opts.Output, Op: RecordWriteOp(format), Err: err}
		}
		return nil
	})

	scanner := tablescan.New(sink, scanOptions(opts)...)
	if err := scanner.Scan(tagstream.NewSourceString(content.HTML)); err != nil {
		_ = closeDst()
		stats.Rows = scanner.Rows()
		return stats, err
	}
	stats.Rows = scanner.Rows()

	if err := w.Close(); err != nil {
		_ = closeDst()
		return stats, &RecordError{Path: opts.Output, Op: RecordWriteOp(format), Err: err}
	}
	if err := closeDst(); err != nil {
		return stats, &FileError{Path: opts.Output, Op: OpWrite, Err: err}
	}

	stats.Duration = time.Since(start)
	log.Debug("extraction finished", "rows", stats.Rows, "output", opts.Output, "duration", stats.Duration)
	return stats, nil
}

func scanOptions(opts ExtractOptions) []tablescan.Option {
	scanOpts := []tablescan.Option{tablescan.WithStripCurrency(opts.StripCurrency)}
	if opts.CurrencyColumn != nil {
		scanOpts = append(scanOpts, tablescan.WithCurrencyColumn(*opts.CurrencyColumn))
	}
	if opts.ContainerClass != "" {
		scanOpts = append(scanOpts, tablescan.WithContainerClass(opts.ContainerClass))
	}
	return scanOpts
}

// openOutput creates path, or returns stdout for "-". The returned close
// function never closes stdout.
func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == Stdio {
		if stdout == nil {
			stdout = os.Stdout
		}
		return stdout, func() error { return nil }, nil
	}

	file, err := os.Create(path) //#nosec G304 -- CLI tool writes to user-specified output file
	if err != nil {
		return nil, nil, &FileError{Path: path, Op: OpWrite, Err: err}
	}
	return file, file.Close, nil
}
