// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package request_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.astrophena.name/courier/internal/request"
	"go.astrophena.name/courier/internal/testutil"
)

func TestMake(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Check the request method and path.
		if r.Method != http.MethodPost || r.URL.Path != "/test" {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if r.Body == nil {
			http.Error(w, "missing request body", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"message": "success"}`))
	}))
	defer ts.Close()

	cases := map[string]struct {
		params  request.Params
		want    string
		wantErr bool
	}{
		"successful request": {
			params: request.Params{
				Method: http.MethodPost,
				URL:    ts.URL + "/test",
				Body:   map[string]string{"key": "value"},
			},
			want: `{"message": "success"}`,
		},
		"successful request with headers": {
			params: request.Params{
				Method: http.MethodPost,
				URL:    ts.URL + "/test",
				Headers: map[string]string{
					"X-Test": "test",
				},
				Body: map[string]string{"key": "value"},
			},
			want: `{"message": "success"}`,
		},
		"custom HTTP client": {
			params: request.Params{
				Method:     http.MethodPost,
				URL:        ts.URL + "/test",
				HTTPClient: &http.Client{},
				Body:       map[string]string{"key": "value"},
			},
			want: `{"message": "success"}`,
		},
		"invalid request method": {
			params: request.Params{
				Method: http.MethodGet,
				URL:    ts.URL + "/test",
			},
			wantErr: true,
		},
		"invalid request path": {
			params: request.Params{
				Method: http.MethodPost,
				URL:    ts.URL + "/invalid",
			},
			wantErr: true,
		},
		"invalid value for JSON": {
			params: request.Params{
				Method: http.MethodPost,
				URL:    ts.URL + "/test",
				Body:   make(chan int),
			},
			wantErr: true,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			resp, err := request.Make[json.RawMessage](t.Context(), tc.params)
			if err != nil {
				if !tc.wantErr {
					t.Errorf("Make() error = %v, wantErr %v", err, tc.wantErr)
				}
				return
			}
			if tc.wantErr {
				t.Errorf("Make() expected error, got none")
			} else if string(resp) != tc.want {
				t.Errorf("Make() got = %v, want %v", resp, tc.want)
			}
		})
	}
}

func TestMakeBytes(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/cat.png":
			w.Write([]byte("\x89PNG meow"))
		case "/missing.png":
			http.Error(w, "nope", http.StatusNotFound)
		default:
			w.Write([]byte(strings.Repeat("x", 64)))
		}
	}))
	defer ts.Close()

	t.Run("raw body", func(t *testing.T) {
		b, err := request.Make[request.Bytes](t.Context(), request.Params{URL: ts.URL + "/cat.png"})
		if err != nil {
			t.Fatal(err)
		}
		testutil.AssertEqual(t, string(b), "\x89PNG meow")
	})

	t.Run("status error", func(t *testing.T) {
		_, err := request.Make[request.Bytes](t.Context(), request.Params{URL: ts.URL + "/missing.png"})
		var statusErr *request.StatusError
		if !errors.As(err, &statusErr) {
			t.Fatalf("want *request.StatusError, got %T (%v)", err, err)
		}
		testutil.AssertEqual(t, statusErr.StatusCode, http.StatusNotFound)
	})

	t.Run("too large", func(t *testing.T) {
		_, err := request.Make[request.Bytes](t.Context(), request.Params{
			URL:             ts.URL + "/big",
			MaxResponseSize: 16,
		})
		var tooLarge *request.ErrTooLarge
		if !errors.As(err, &tooLarge) {
			t.Fatalf("want *request.ErrTooLarge, got %T (%v)", err, err)
		}
		testutil.AssertEqual(t, tooLarge.Limit, int64(16))
	})

	t.Run("scrubbed error", func(t *testing.T) {
		_, err := request.Make[request.Bytes](t.Context(), request.Params{
			URL:      ts.URL + "/missing.png?token=hello",
			Scrubber: strings.NewReplacer("hello", "[EXPUNGED]"),
		})
		if err == nil {
			t.Fatal("want error")
		}
		if strings.Contains(err.Error(), "hello") {
			t.Fatalf("error is not scrubbed: %v", err)
		}
	})
}
