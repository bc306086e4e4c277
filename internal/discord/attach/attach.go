// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package attach resolves file-like message attachments into named,
// readable resources ready for a multipart upload.
//
// A file is either bare (just a source: a path or URL string, raw bytes or an
// [io.Reader]) or described (a source with an explicit name). Turning a
// source into bytes is the job of a [Loader]; this package only classifies
// inputs, derives display names and runs loads concurrently.
package attach

import (
	"context"
	"io"
	"path"
	"strings"
)

// DefaultName is the display name of a file whose name cannot be derived
// from its source.
const DefaultName = "file.jpg"

// File is a file-like attachment input.
type File struct {
	// Source is a path or URL string, a []byte or an io.Reader.
	Source any
	// Name is the display name. If empty, it is derived from Source.
	Name string
}

// From returns a bare File for src.
func From(src any) File { return File{Source: src} }

// Described reports whether f carries an explicit name.
func (f File) Described() bool { return f.Name != "" }

// DisplayName returns the name f will be uploaded with.
func (f File) DisplayName() string {
	if f.Name != "" {
		return f.Name
	}
	return nameOf(f.Source)
}

func nameOf(src any) string {
	switch s := src.(type) {
	case string:
		return basename(s)
	case interface{ Name() string }: // *os.File and friends
		return basename(s.Name())
	}
	return DefaultName
}

func basename(p string) string {
	base := path.Base(p)
	base, _, _ = strings.Cut(base, "?")
	switch base {
	case "", ".", "/":
		return DefaultName
	}
	return base
}

// Resolved is a file whose source has been loaded.
type Resolved struct {
	Source   any
	Name     string
	Resource io.Reader

	// owned is set when the resource was opened by the loader rather than
	// handed in by the caller as the source.
	owned bool
}

// Close closes the underlying resource if it is an [io.Closer].
func (r Resolved) Close() error {
	if c, ok := r.Resource.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Loader turns a file source into a readable resource.
type Loader interface {
	Load(ctx context.Context, source any) (io.Reader, error)
}

// LoaderFunc is an adapter to allow the use of ordinary functions as a
// [Loader].
type LoaderFunc func(ctx context.Context, source any) (io.Reader, error)

// Load calls f(ctx, source).
func (f LoaderFunc) Load(ctx context.Context, source any) (io.Reader, error) {
	return f(ctx, source)
}
