// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package content formats message text: it fences code blocks and splits long
// text into chunks that fit into a single message.
package content

import (
	"errors"
	"fmt"
	"strings"

	"go.astrophena.name/courier/internal/discord"
)

// ErrInvalidContentType is returned when message content is neither a
// string nor null.
var ErrInvalidContentType = errors.New("content must be a string or null")

// Value converts a loosely typed content value into a [discord.Nullable].
// nil becomes an explicit null. Anything that is not a string, including
// values with a String method, fails with [ErrInvalidContentType].
func Value(v any) (discord.Nullable[string], error) {
	switch v := v.(type) {
	case nil:
		return discord.Null[string](), nil
	case string:
		return discord.Some(v), nil
	default:
		return discord.Nullable[string]{}, fmt.Errorf("%w: got %T", ErrInvalidContentType, v)
	}
}

// Code controls fencing of content in a code block.
type Code struct {
	// Enabled turns fencing on.
	Enabled bool
	// Lang is the language tag written after the opening fence.
	Lang string
}

// Lang returns a Code that fences content with the language tag lang.
func Lang(lang string) Code { return Code{Enabled: true, Lang: lang} }

func (c Code) open() string { return "```" + c.Lang + "\n" }

const closeFence = "\n```"

// Input is the content-related part of send options.
type Input struct {
	Content discord.Nullable[string]
	Code    Code
	// Split, if not nil, splits content into several chunks.
	Split *SplitOptions
}

// Formatted is formatted content.
type Formatted struct {
	// Set is false when content was absent and must be omitted.
	Set bool
	// Chunks holds the text of each message, in order. It has exactly one
	// element unless content was split.
	Chunks []string
}

// IsSplit reports whether content spans more than one message.
func (f Formatted) IsSplit() bool { return len(f.Chunks) > 1 }

// Text returns the content of a single message.
func (f Formatted) Text() (string, bool) {
	if !f.Set || len(f.Chunks) != 1 {
		return "", false
	}
	return f.Chunks[0], true
}

// Format formats content of in.
//
// Absent content stays absent and null content becomes an empty string.
// When fencing and splitting are both requested, fence markers are added to
// the split prepend and append so that every chunk is fenced on its own.
func Format(in Input) (Formatted, error) {
	if !in.Content.IsSet() {
		return Formatted{}, nil
	}
	text, _ := in.Content.Get()

	var split *SplitOptions
	if in.Split != nil {
		s := *in.Split
		split = &s
	}

	if in.Code.Enabled && text != "" {
		text = in.Code.open() + EscapeCodeBlock(text) + closeFence
		if split != nil {
			split.Prepend += in.Code.open()
			split.Append = closeFence + split.Append
		}
	}

	if split == nil {
		return Formatted{Set: true, Chunks: []string{text}}, nil
	}
	chunks, err := Split(text, *split)
	if err != nil {
		return Formatted{}, err
	}
	return Formatted{Set: true, Chunks: chunks}, nil
}

// EscapeCodeBlock breaks triple backticks in text with a zero-width space so
// that text cannot close the code block it is placed in.
func EscapeCodeBlock(text string) string {
	return strings.ReplaceAll(text, "```", "`\u200b``")
}
