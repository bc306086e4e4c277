// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package payload

import (
	"strings"
	"testing"

	"go.astrophena.name/courier/internal/discord"
	"go.astrophena.name/courier/internal/discord/target"
	"go.astrophena.name/courier/internal/logger"
	"go.astrophena.name/courier/internal/testutil"
)

type fixtureConfig struct {
	AllowedMentions *discord.AllowedMentions `json:"allowedMentions"`
	Strict          bool                     `json:"strict"`
}

func TestFixtures(t *testing.T) {
	testutil.Run(t, "testdata/*.txtar", func(t *testing.T, match string) {
		files := testutil.ReadTxtar(t, match)

		tgt, err := testutil.UnmarshalJSON[target.Spec](t, files["target.json"]).Target()
		if err != nil {
			t.Fatal(err)
		}
		cfg := Config{Logger: logger.Discard()}
		if b, ok := files["config.json"]; ok {
			fc := testutil.UnmarshalJSON[fixtureConfig](t, b)
			cfg.AllowedMentions = fc.AllowedMentions
			cfg.Strict = fc.Strict
		}

		var builders []*Builder
		opts, err := Decode(testutil.UnmarshalJSON[map[string]any](t, files["options.json"]))
		if err == nil {
			builders, err = New(tgt, opts, cfg).Split()
		}

		if want, ok := files["error"]; ok {
			if err == nil {
				t.Fatalf("want error containing %q, got none", want)
			}
			if !strings.Contains(err.Error(), strings.TrimSpace(string(want))) {
				t.Fatalf("want error containing %q, got %v", want, err)
			}
			return
		}
		if err != nil {
			t.Fatal(err)
		}

		got := make([]any, len(builders))
		for i, b := range builders {
			p, err := b.Build()
			if err != nil {
				t.Fatal(err)
			}
			got[i] = testutil.RoundtripJSON(t, p)
		}
		testutil.AssertEqual(t, got, testutil.UnmarshalJSON[any](t, files["want.json"]))
	})
}
