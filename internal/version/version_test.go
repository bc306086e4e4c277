// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package version

import (
	"runtime/debug"
	"strings"
	"testing"

	"go.astrophena.name/courier/internal/testutil"
)

func TestUserAgent(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		in   Info
		want string
	}{
		"release": {
			in:   Info{Version: "v0.3.0"},
			want: "courier/v0.3.0 (+https://astrophena.name/bleep-bloop)",
		},
		"devel with commit": {
			in:   Info{Version: "devel", Commit: "abc123"},
			want: "courier/abc123 (+https://astrophena.name/bleep-bloop)",
		},
		"devel without commit": {
			in:   Info{Version: "devel"},
			want: "courier/devel (+https://astrophena.name/bleep-bloop)",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, userAgent(tc.in), tc.want)
		})
	}
}

func TestLoadInfo(t *testing.T) {
	// Not parallel: swaps package-level hooks.
	oldLoad, oldExe := loadFunc, exeFunc
	t.Cleanup(func() { loadFunc, exeFunc = oldLoad, oldExe })

	exeFunc = func() (string, error) { return "/usr/local/bin/courier", nil }
	loadFunc = func() (*debug.BuildInfo, bool) {
		return &debug.BuildInfo{
			Main: debug.Module{Version: "(devel)"},
			Settings: []debug.BuildSetting{
				{Key: "vcs.revision", Value: "deadbeef"},
				{Key: "vcs.time", Value: "2024-05-20T16:03:48Z"},
			},
		}, true
	}

	got := loadInfo()
	testutil.AssertEqual(t, got.Name, "courier")
	testutil.AssertEqual(t, got.Version, "devel")
	testutil.AssertEqual(t, got.Commit, "deadbeef")
	testutil.AssertEqual(t, got.BuiltAt, "2024-05-20T16:03:48Z")

	if !strings.Contains(got.String(), "commit deadbeef") {
		t.Fatalf("String() = %q, want commit line", got.String())
	}
}
