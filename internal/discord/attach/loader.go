// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package attach

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"go.astrophena.name/courier/internal/request"
)

// MaxFileSize is the default limit for files fetched over HTTP.
const MaxFileSize = 25 << 20

var (
	// ErrFileNotFound means a path source does not name a regular file.
	ErrFileNotFound = errors.New("file not found")
	// ErrUnsupportedSource means a source is of a type no loader understands.
	ErrUnsupportedSource = errors.New("unsupported file source")
)

// LoadError is returned by the default loader when a source cannot be loaded.
type LoadError struct {
	Source any
	Err    error
}

func (e *LoadError) Error() string {
	switch s := e.Source.(type) {
	case string:
		return fmt.Sprintf("loading %q: %v", s, e.Err)
	default:
		return fmt.Sprintf("loading %T: %v", s, e.Err)
	}
}

func (e *LoadError) Unwrap() error { return e.Err }

// LoaderConfig configures the loader returned by [NewLoader].
type LoaderConfig struct {
	// HTTPClient fetches URL sources. If nil, request.DefaultClient is used.
	HTTPClient *http.Client
	// MaxFileSize limits the size of fetched files. If zero, MaxFileSize is
	// used.
	MaxFileSize int64
}

// NewLoader returns a Loader that understands raw bytes, readers, http(s)
// URLs and filesystem paths. Path sources are opened, not read; the returned
// resource is an *os.File the caller must close.
func NewLoader(cfg LoaderConfig) Loader {
	l := &loader{httpc: cfg.HTTPClient, maxSize: cfg.MaxFileSize}
	if l.httpc == nil {
		l.httpc = request.DefaultClient
	}
	if l.maxSize == 0 {
		l.maxSize = MaxFileSize
	}
	return l
}

type loader struct {
	httpc   *http.Client
	maxSize int64
}

func (l *loader) Load(ctx context.Context, source any) (io.Reader, error) {
	switch src := source.(type) {
	case []byte:
		return bytes.NewReader(src), nil
	case io.Reader:
		return src, nil
	case string:
		if isURL(src) {
			return l.fetch(ctx, src)
		}
		return l.open(src)
	default:
		return nil, &LoadError{Source: source, Err: ErrUnsupportedSource}
	}
}

func (l *loader) fetch(ctx context.Context, url string) (io.Reader, error) {
	b, err := request.Make[request.Bytes](ctx, request.Params{
		Method:          http.MethodGet,
		URL:             url,
		HTTPClient:      l.httpc,
		MaxResponseSize: l.maxSize,
	})
	if err != nil {
		return nil, &LoadError{Source: url, Err: err}
	}
	return bytes.NewReader(b), nil
}

func (l *loader) open(path string) (io.Reader, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			err = ErrFileNotFound
		}
		return nil, &LoadError{Source: path, Err: err}
	}
	if !fi.Mode().IsRegular() {
		return nil, &LoadError{Source: path, Err: ErrFileNotFound}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Source: path, Err: err}
	}
	return f, nil
}

func isURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
