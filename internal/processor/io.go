package processor

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/pkg/errors"
)

// ReadText reads a whole file. Paths ending in .gz are decompressed.
func ReadText(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	if !isGzip(path) {
		return io.ReadAll(f)
	}

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer func() { _ = zr.Close() }()
	return io.ReadAll(zr)
}

// WriteText writes data to path, creating parent directories. Paths ending
// in .gz are compressed.
func WriteText(path string, data []byte) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	// We care about write errors on close
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	if !isGzip(path) {
		_, err = f.Write(data)
		return err
	}

	zw := gzip.NewWriter(f)
	if _, err := zw.Write(data); err != nil {
		return err
	}
	return zw.Close()
}

// FetchText downloads url. Non-200 responses are errors; URLs ending in .gz
// are decompressed.
func FetchText(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	// Explicitly ignore close error as it's a read-only operation
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	if !isGzip(req.URL.Path) {
		return io.ReadAll(resp.Body)
	}

	zr, err := gzip.NewReader(resp.Body)
	if err != nil {
		return nil, err
	}
	defer func() { _ = zr.Close() }()
	return io.ReadAll(zr)
}

// Load reads source from the network when it is an http(s) URL and from
// disk otherwise.
func Load(ctx context.Context, client *http.Client, source string) ([]byte, error) {
	if IsURL(source) {
		return FetchText(ctx, client, source)
	}
	return ReadText(source)
}

// IsURL reports whether source names an http(s) resource.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func isGzip(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".gz")
}
