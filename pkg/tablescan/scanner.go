// Package tablescan extracts the rows of the price table from a tag
// stream. It is a single left-to-right fold: a small context machine
// recognises html > body > div.table-scrollable > table > tr > td and a
// row buffer collects the cell text.
package tablescan

import (
	"io"

	"github.com/jmylchreest/posbridge/internal/logger"
	"github.com/jmylchreest/posbridge/pkg/tagstream"
)

// RecordSink receives each completed row in document order.
type RecordSink interface {
	WriteRecord(record []string) error
}

// RecordSinkFunc adapts a function to RecordSink.
type RecordSinkFunc func(record []string) error

// WriteRecord calls f(record).
func (f RecordSinkFunc) WriteRecord(record []string) error {
	return f(record)
}

// TagSource is anything that yields tags until io.EOF.
type TagSource interface {
	Next() (tagstream.Tag, error)
}

// Options controls scanning.
type Options struct {
	StripCurrency  bool
	CurrencyColumn int
	ContainerClass string
}

// DefaultOptions returns the behaviour of a plain run: no currency
// stripping, price in column 4, container class "table-scrollable".
func DefaultOptions() Options {
	return Options{
		CurrencyColumn: DefaultCurrencyColumn,
		ContainerClass: DefaultContainerClass,
	}
}

// Option configures a Scanner.
type Option func(*Options)

// WithStripCurrency enables trimming of the price column.
func WithStripCurrency(enabled bool) Option {
	return func(o *Options) {
		o.StripCurrency = enabled
	}
}

// WithCurrencyColumn sets the zero-based cell index that is trimmed.
func WithCurrencyColumn(index int) Option {
	return func(o *Options) {
		o.CurrencyColumn = index
	}
}

// WithContainerClass sets the class value that marks the container div.
func WithContainerClass(class string) Option {
	return func(o *Options) {
		o.ContainerClass = class
	}
}

// Scanner holds the state of one pass over a document.
type Scanner struct {
	sink  RecordSink
	opts  Options
	ctx   Context
	acc   *Accumulator
	rows  int
	cells int
}

// New creates a Scanner that writes rows to sink.
func New(sink RecordSink, opts ...Option) *Scanner {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Scanner{
		sink: sink,
		opts: o,
		ctx:  Initial,
		acc:  NewAccumulator(o.StripCurrency, o.CurrencyColumn),
	}
}

// Feed advances the scan by one tag. The only error it returns is one
// from the sink, unchanged.
func (s *Scanner) Feed(tag tagstream.Tag) error {
	next, ev := Next(s.ctx, tag, s.opts.ContainerClass)
	if next == InContainer && s.ctx != InContainer {
		logger.Debug("entered table container", "class", s.opts.ContainerClass)
	}
	s.ctx = next

	switch ev {
	case EventText:
		s.acc.Append(tag.Text)
		s.cells++
	case EventRowClosed:
		if row, ok := s.acc.Close(); ok {
			if err := s.sink.WriteRecord(row); err != nil {
				return err
			}
			s.rows++
		}
	}
	return nil
}

// Scan feeds every tag from src until io.EOF. Errors from the source or
// the sink are returned unchanged.
func (s *Scanner) Scan(src TagSource) error {
	for {
		tag, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if err := s.Feed(tag); err != nil {
			return err
		}
	}

	logger.Debug("table scan complete",
		"rows", s.rows,
		"cells", s.cells,
		"final_context", s.ctx.String())
	return nil
}

// Context returns the current context.
func (s *Scanner) Context() Context {
	return s.ctx
}

// Rows returns the number of rows written to the sink so far.
func (s *Scanner) Rows() int {
	return s.rows
}

// ScanString is a convenience that scans an in-memory document and
// returns the rows instead of writing them to a sink.
func ScanString(doc string, opts ...Option) ([][]string, error) {
	var rows [][]string
	sink := RecordSinkFunc(func(record []string) error {
		rows = append(rows, record)
		return nil
	})
	if err := New(sink, opts...).Scan(tagstream.NewSourceString(doc)); err != nil {
		return rows, err
	}
	return rows, nil
}
