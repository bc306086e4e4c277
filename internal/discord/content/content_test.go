// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package content

import (
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"go.astrophena.name/courier/internal/discord"
	"go.astrophena.name/courier/internal/testutil"
)

func TestFormat(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		in      Input
		want    Formatted
		wantErr error
	}{
		"absent": {
			in:   Input{},
			want: Formatted{},
		},
		"null becomes empty": {
			in:   Input{Content: discord.Null[string]()},
			want: Formatted{Set: true, Chunks: []string{""}},
		},
		"plain": {
			in:   Input{Content: discord.Some("hello")},
			want: Formatted{Set: true, Chunks: []string{"hello"}},
		},
		"code without language": {
			in:   Input{Content: discord.Some("x := 1"), Code: Code{Enabled: true}},
			want: Formatted{Set: true, Chunks: []string{"```\nx := 1\n```"}},
		},
		"code with language": {
			in:   Input{Content: discord.Some("x := 1"), Code: Lang("go")},
			want: Formatted{Set: true, Chunks: []string{"```go\nx := 1\n```"}},
		},
		"code escapes fences": {
			in:   Input{Content: discord.Some("a```b"), Code: Lang("md")},
			want: Formatted{Set: true, Chunks: []string{"```md\na`\u200b``b\n```"}},
		},
		"empty content is not fenced": {
			in:   Input{Content: discord.Some(""), Code: Lang("js")},
			want: Formatted{Set: true, Chunks: []string{""}},
		},
		"null content is not fenced": {
			in:   Input{Content: discord.Null[string](), Code: Lang("js"), Split: &SplitOptions{}},
			want: Formatted{Set: true, Chunks: []string{""}},
		},
		"split short content": {
			in:   Input{Content: discord.Some("short"), Split: &SplitOptions{}},
			want: Formatted{Set: true, Chunks: []string{"short"}},
		},
		"code and split": {
			in:   Input{Content: discord.Some("a\nb"), Code: Lang("js"), Split: &SplitOptions{MaxLength: 12}},
			want: Formatted{Set: true, Chunks: []string{"```js\na\n```", "```js\nb\n```"}},
		},
		"split impossible": {
			in: Input{
				Content: discord.Some(strings.Repeat("x", 20)),
				Split:   &SplitOptions{MaxLength: 10, Prepend: "12345", Append: "12345"},
			},
			wantErr: ErrSplitImpossible,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := Format(tc.in)
			testutil.AssertErrorIs(t, err, tc.wantErr)
			if tc.wantErr != nil {
				return
			}
			testutil.AssertEqual(t, got, tc.want)
		})
	}
}

func TestFormatDoesNotMutateSplitOptions(t *testing.T) {
	t.Parallel()
	opts := &SplitOptions{MaxLength: 12, Prepend: "p"}
	if _, err := Format(Input{Content: discord.Some("a\nb\nc\nd"), Code: Lang("js"), Split: opts}); err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, *opts, SplitOptions{MaxLength: 12, Prepend: "p"})
}

func TestFormatCodeAndSplitChunksAreFenced(t *testing.T) {
	t.Parallel()

	lines := make([]string, 50)
	for i := range lines {
		lines[i] = strings.Repeat("line", i%7+1)
	}
	const limit = 40
	got, err := Format(Input{
		Content: discord.Some(strings.Join(lines, "\n")),
		Code:    Lang("js"),
		Split:   &SplitOptions{MaxLength: limit},
	})
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsSplit() {
		t.Fatalf("content was not split: %q", got.Chunks)
	}
	for i, chunk := range got.Chunks {
		if !strings.HasPrefix(chunk, "```js\n") || !strings.HasSuffix(chunk, "\n```") {
			t.Errorf("chunk %d is not fenced: %q", i, chunk)
		}
		if n := utf8.RuneCountInString(chunk); n > limit {
			t.Errorf("chunk %d is %d characters long, want at most %d", i, n, limit)
		}
	}
}

func TestFormattedText(t *testing.T) {
	t.Parallel()

	text, ok := Formatted{Set: true, Chunks: []string{"a"}}.Text()
	testutil.AssertEqual(t, text, "a")
	testutil.AssertEqual(t, ok, true)

	_, ok = Formatted{}.Text()
	testutil.AssertEqual(t, ok, false)

	_, ok = Formatted{Set: true, Chunks: []string{"a", "b"}}.Text()
	testutil.AssertEqual(t, ok, false)
}

type stringer string

func (s stringer) String() string { return string(s) }

func TestValue(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		in       any
		wantNull bool
		want     string
		wantErr  error
	}{
		"nil":      {in: nil, wantNull: true},
		"string":   {in: "hi", want: "hi"},
		"stringer": {in: stringer("hey"), wantErr: ErrInvalidContentType},
		"time":     {in: time.Unix(0, 0), wantErr: ErrInvalidContentType},
		"big int":  {in: big.NewInt(5), wantErr: ErrInvalidContentType},
		"int":      {in: 42, wantErr: ErrInvalidContentType},
		"map":      {in: map[string]any{}, wantErr: ErrInvalidContentType},
		"bool":     {in: true, wantErr: ErrInvalidContentType},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			got, err := Value(tc.in)
			testutil.AssertErrorIs(t, err, tc.wantErr)
			if tc.wantErr != nil {
				return
			}
			testutil.AssertEqual(t, got.IsNull(), tc.wantNull)
			v, _ := got.Get()
			testutil.AssertEqual(t, v, tc.want)
		})
	}
}

func TestEscapeCodeBlock(t *testing.T) {
	t.Parallel()
	testutil.AssertEqual(t, EscapeCodeBlock("no fences"), "no fences")
	got := EscapeCodeBlock("```go\n```")
	if strings.Contains(got, "```") {
		t.Errorf("EscapeCodeBlock left a fence: %q", got)
	}
	testutil.AssertEqual(t, strings.ReplaceAll(got, "\u200b", ""), "```go\n```")
}

func TestSplitErrorAs(t *testing.T) {
	t.Parallel()
	_, err := Split(strings.Repeat("x", 11), SplitOptions{MaxLength: 10, Prepend: "12345", Append: "123456"})
	var se *SplitError
	if !errors.As(err, &se) {
		t.Fatalf("got %v, want *SplitError", err)
	}
	testutil.AssertEqual(t, *se, SplitError{MaxLength: 10, Room: -1})
}
