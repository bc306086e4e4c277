// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package httplogger

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"go.astrophena.name/courier/internal/logger"
)

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	t.Cleanup(srv.Close)

	var (
		mu    sync.Mutex
		lines []string
	)
	logf := func(format string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		lines = append(lines, fmt.Sprintf(format, args...))
	}
	c := &http.Client{Transport: New(nil, logger.Slog(logf, slog.LevelDebug))}

	resp, err := c.Get(srv.URL + "/cat.png?sig=secret")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(lines) != 1 {
		t.Fatalf("want one log line, got %q", lines)
	}
	line := lines[0]
	for _, want := range []string{"http request", "method=GET", "/cat.png", "status=418"} {
		if !strings.Contains(line, want) {
			t.Errorf("log line %q does not contain %q", line, want)
		}
	}
	if strings.Contains(line, "secret") {
		t.Errorf("log line %q leaks the query", line)
	}
}

func TestRedact(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"https://example.com/a":            "https://example.com/a",
		"https://example.com/a?x=1":        "https://example.com/a",
		"https://example.com/a?sig=s#frag": "https://example.com/a",
	}
	for in, want := range cases {
		t.Run(in, func(t *testing.T) {
			u, err := url.Parse(in)
			if err != nil {
				t.Fatal(err)
			}
			if got := redact(u); got != want {
				t.Errorf("redact(%q) = %q, want %q", in, got, want)
			}
		})
	}
}
