// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package attach

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.astrophena.name/courier/internal/logger"
	"go.astrophena.name/courier/internal/testutil"
)

func TestDisplayName(t *testing.T) {
	t.Parallel()

	tmp, err := os.CreateTemp(t.TempDir(), "report-*.pdf")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { tmp.Close() })

	cases := map[string]struct {
		in   File
		want string
	}{
		"explicit name wins":    {in: File{Source: "/tmp/a.png", Name: "b.png"}, want: "b.png"},
		"path":                  {in: From("/var/data/cat.png"), want: "cat.png"},
		"relative path":         {in: From("cat.png"), want: "cat.png"},
		"url with query":        {in: From("https://cdn.example.com/img/dog.gif?size=1024"), want: "dog.gif"},
		"bytes":                 {in: From([]byte("data")), want: DefaultName},
		"plain reader":          {in: From(strings.NewReader("data")), want: DefaultName},
		"named reader":          {in: From(tmp), want: filepath.Base(tmp.Name())},
		"empty string":          {in: From(""), want: DefaultName},
		"described with reader": {in: File{Source: strings.NewReader("x"), Name: "notes.txt"}, want: "notes.txt"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, tc.in.DisplayName(), tc.want)
		})
	}
}

// delayLoader returns sources as readers after a per-source delay.
func delayLoader(delays map[string]time.Duration) Loader {
	return LoaderFunc(func(ctx context.Context, source any) (io.Reader, error) {
		s := source.(string)
		select {
		case <-time.After(delays[s]):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return strings.NewReader(s), nil
	})
}

func TestResolveAllKeepsOrder(t *testing.T) {
	t.Parallel()

	r := NewResolver(Config{
		Loader: delayLoader(map[string]time.Duration{
			"a.png": 30 * time.Millisecond,
			"b.png": 10 * time.Millisecond,
			"c.png": 0,
		}),
		Logger: logger.Discard(),
	})

	got, err := r.ResolveAll(t.Context(), []File{From("a.png"), From("b.png"), From("c.png")})
	if err != nil {
		t.Fatal(err)
	}

	var names []string
	for _, res := range got {
		names = append(names, res.Name)
		b, err := io.ReadAll(res.Resource)
		if err != nil {
			t.Fatal(err)
		}
		testutil.AssertEqual(t, string(b), res.Source)
	}
	testutil.AssertEqual(t, names, []string{"a.png", "b.png", "c.png"})
}

func TestResolveAllEmpty(t *testing.T) {
	t.Parallel()

	r := NewResolver(Config{Logger: logger.Discard()})
	got, err := r.ResolveAll(t.Context(), nil)
	testutil.AssertEqual(t, err, nil)
	testutil.AssertEqual(t, len(got), 0)
}

type closeTracker struct {
	io.Reader
	closed *atomic.Int32
}

func (c closeTracker) Close() error {
	c.closed.Add(1)
	return nil
}

func TestResolveAllFailFast(t *testing.T) {
	t.Parallel()

	var closed atomic.Int32
	boom := errors.New("boom")
	r := NewResolver(Config{
		Loader: LoaderFunc(func(ctx context.Context, source any) (io.Reader, error) {
			switch source {
			case "bad":
				time.Sleep(10 * time.Millisecond)
				return nil, boom
			case "slow":
				<-ctx.Done()
				return nil, ctx.Err()
			}
			return closeTracker{Reader: strings.NewReader("ok"), closed: &closed}, nil
		}),
		Logger: logger.Discard(),
	})

	got, err := r.ResolveAll(t.Context(), []File{From("good"), From("bad"), From("slow")})
	if !errors.Is(err, boom) {
		t.Fatalf("want boom, got %v", err)
	}
	if got != nil {
		t.Fatalf("want no partial result, got %v", got)
	}
	testutil.AssertEqual(t, closed.Load(), int32(1))
}

func TestResolveAllLeavesCallerReadersOpen(t *testing.T) {
	t.Parallel()

	var closed atomic.Int32
	own := closeTracker{Reader: strings.NewReader("mine"), closed: &closed}
	r := NewResolver(Config{Logger: logger.Discard()})

	_, err := r.ResolveAll(t.Context(), []File{From(own), From(42)})
	testutil.AssertErrorIs(t, err, ErrUnsupportedSource)
	testutil.AssertEqual(t, closed.Load(), int32(0))
}

func TestResolveAllConcurrencyLimit(t *testing.T) {
	t.Parallel()

	var running, peak atomic.Int32
	r := NewResolver(Config{
		Concurrency: 2,
		Loader: LoaderFunc(func(ctx context.Context, source any) (io.Reader, error) {
			n := running.Add(1)
			defer running.Add(-1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			return strings.NewReader(""), nil
		}),
		Logger: logger.Discard(),
	})

	files := make([]File, 8)
	for i := range files {
		files[i] = From("f")
	}
	if _, err := r.ResolveAll(t.Context(), files); err != nil {
		t.Fatal(err)
	}
	if peak.Load() > 2 {
		t.Fatalf("peak concurrency %d exceeds limit 2", peak.Load())
	}
}

func TestLoader(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/cat.png" {
			w.Write([]byte("meow"))
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(ts.Close)

	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("remember the milk"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := NewLoader(LoaderConfig{HTTPClient: ts.Client()})

	cases := map[string]struct {
		source  any
		want    string
		wantErr error
	}{
		"bytes":            {source: []byte("raw"), want: "raw"},
		"reader":           {source: bytes.NewBufferString("buffered"), want: "buffered"},
		"url":              {source: ts.URL + "/cat.png", want: "meow"},
		"path":             {source: path, want: "remember the milk"},
		"missing path":     {source: filepath.Join(dir, "nope.txt"), wantErr: ErrFileNotFound},
		"directory":        {source: dir, wantErr: ErrFileNotFound},
		"unsupported type": {source: 42, wantErr: ErrUnsupportedSource},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			res, err := l.Load(t.Context(), tc.source)
			if tc.wantErr != nil {
				testutil.AssertErrorIs(t, err, tc.wantErr)
				var le *LoadError
				if !errors.As(err, &le) {
					t.Fatalf("want *LoadError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			b, err := io.ReadAll(res)
			if err != nil {
				t.Fatal(err)
			}
			if c, ok := res.(io.Closer); ok {
				c.Close()
			}
			testutil.AssertEqual(t, string(b), tc.want)
		})
	}

	t.Run("url not found", func(t *testing.T) {
		_, err := l.Load(t.Context(), ts.URL+"/dog.png")
		var le *LoadError
		if !errors.As(err, &le) {
			t.Fatalf("want *LoadError, got %T (%v)", err, err)
		}
		testutil.AssertEqual(t, le.Source, any(ts.URL+"/dog.png"))
	})
}
