package fetcher

import (
	"context"
	"os"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/posbridge/internal/logger"
)

// FileFetcher reads documents from the local filesystem.
type FileFetcher struct{}

// NewFile creates a file fetcher.
func NewFile() *FileFetcher {
	return &FileFetcher{}
}

// Fetch reads the whole file at path. Filesystem errors are returned
// unwrapped so callers can attach the path and operation.
func (f *FileFetcher) Fetch(ctx context.Context, path string, opts Options) (Content, error) {
	if err := ctx.Err(); err != nil {
		return Content{}, err
	}

	if opts.MaxSize > 0 {
		info, err := os.Stat(path)
		if err != nil {
			return Content{}, err
		}
		if size := uint64(info.Size()); size > opts.MaxSize {
			return Content{}, tooLarge(size, opts.MaxSize)
		}
	}

	data, err := os.ReadFile(path) //#nosec G304 -- CLI tool reads user-specified input file
	if err != nil {
		return Content{}, err
	}
	logger.Debug("file read", "path", path, "size", humanize.Bytes(uint64(len(data))))

	return Content{
		Location:  path,
		HTML:      string(data),
		FetchedAt: time.Now(),
	}, nil
}

// Close releases resources.
func (f *FileFetcher) Close() error {
	return nil
}

// Type returns the fetcher type.
func (f *FileFetcher) Type() string {
	return "file"
}
