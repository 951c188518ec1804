// Package fetcher loads the HTML export that the table scanner reads.
// A location is either a local path or an http(s) URL; both are read
// whole into memory before scanning starts.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Fetcher abstracts document loading strategies.
type Fetcher interface {
	// Fetch retrieves the whole document at location.
	Fetch(ctx context.Context, location string, opts Options) (Content, error)

	// Close releases any resources.
	Close() error

	// Type returns a string identifying the fetcher type ("file", "static").
	Type() string
}

// Options controls fetching behavior.
type Options struct {
	UserAgent string
	Timeout   time.Duration
	Headers   map[string]string
	MaxSize   uint64 // bytes; 0 means unlimited
}

// Content is a fetched document.
type Content struct {
	Location    string
	HTML        string
	StatusCode  int // HTTP only
	ContentType string
	FetchedAt   time.Time
}

// Size returns the document length in bytes.
func (c Content) Size() int {
	return len(c.HTML)
}

// ErrTooLarge is returned when a document exceeds Options.MaxSize.
// Check with errors.Is(err, fetcher.ErrTooLarge).
var ErrTooLarge = errors.New("document exceeds size limit")

func tooLarge(size, limit uint64) error {
	return fmt.Errorf("%w: %s > %s", ErrTooLarge, humanize.Bytes(size), humanize.Bytes(limit))
}

// ParseSize parses a human size such as "10MB" or "512KiB". An empty
// string or "0" means unlimited.
func ParseSize(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	return n, nil
}

// IsRemote reports whether location is an http or https URL.
func IsRemote(location string) bool {
	u, err := url.Parse(location)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ForLocation returns the fetcher that can load location.
func ForLocation(location string, cfg StaticConfig) Fetcher {
	if IsRemote(location) {
		return NewStatic(cfg)
	}
	return NewFile()
}
