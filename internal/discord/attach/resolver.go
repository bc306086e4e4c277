// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package attach

import (
	"context"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Config configures a [Resolver].
type Config struct {
	// Loader loads file sources. If nil, NewLoader(LoaderConfig{}) is used.
	Loader Loader
	// Concurrency limits the number of loads running at once. Zero means no
	// limit.
	Concurrency int
	Logger      *slog.Logger
}

// Resolver resolves files through a [Loader].
type Resolver struct {
	loader Loader
	limit  int
	slog   *slog.Logger
}

// NewResolver returns a new Resolver.
func NewResolver(cfg Config) *Resolver {
	r := &Resolver{
		loader: cfg.Loader,
		limit:  cfg.Concurrency,
		slog:   cfg.Logger,
	}
	if r.loader == nil {
		r.loader = NewLoader(LoaderConfig{})
	}
	if r.slog == nil {
		r.slog = slog.Default()
	}
	return r
}

// Resolve loads a single file. Loader errors are returned unchanged.
func (r *Resolver) Resolve(ctx context.Context, f File) (Resolved, error) {
	name := f.DisplayName()
	r.slog.Debug("resolving file", slog.String("name", name), slog.Bool("described", f.Described()))
	res, err := r.loader.Load(ctx, f.Source)
	if err != nil {
		return Resolved{}, err
	}
	_, callerReader := f.Source.(io.Reader)
	return Resolved{Source: f.Source, Name: name, Resource: res, owned: !callerReader}, nil
}

// ResolveAll loads all files concurrently. The result keeps the order of
// files regardless of the order in which loads finish.
//
// The first failing load fails the whole call: loads still in flight see
// their context canceled and resources the loader opened for finished loads
// are closed. Readers passed in as sources are left alone. No partial result
// is returned.
func (r *Resolver) ResolveAll(ctx context.Context, files []File) ([]Resolved, error) {
	if len(files) == 0 {
		return nil, nil
	}

	out := make([]Resolved, len(files))
	g, gctx := errgroup.WithContext(ctx)
	if r.limit > 0 {
		g.SetLimit(r.limit)
	}
	for i, f := range files {
		g.Go(func() error {
			res, err := r.Resolve(gctx, f)
			if err != nil {
				return err
			}
			out[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, res := range out {
			if res.owned {
				res.Close()
			}
		}
		r.slog.Warn("file resolution failed", slog.Int("files", len(files)), slog.Any("error", err))
		return nil, err
	}
	return out, nil
}
