// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package content

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// MaxLength is the maximum length of message content, in characters.
const MaxLength = 2000

// ErrSplitImpossible is returned when content can't be split into chunks
// that fit the maximum length.
var ErrSplitImpossible = errors.New("content cannot be split")

// SplitError is returned when the prepend and append of a split leave no
// room for content. It wraps [ErrSplitImpossible].
type SplitError struct {
	MaxLength int
	// Room is what remains of MaxLength after prepend and append.
	Room int
}

func (e *SplitError) Error() string {
	return fmt.Sprintf("%v: chunks are limited to %d characters, leaving %d for content", ErrSplitImpossible, e.MaxLength, e.Room)
}

func (e *SplitError) Unwrap() error { return ErrSplitImpossible }

// SplitOptions configure splitting.
type SplitOptions struct {
	// MaxLength is the maximum length of each chunk. Defaults to MaxLength.
	MaxLength int
	// Char lists boundaries to split at, coarsest first. Defaults to a
	// newline.
	Char []string
	// Prepend is added to every chunk but the first.
	Prepend string
	// Append is added to every chunk but the last.
	Append string
}

func (o SplitOptions) withDefaults() SplitOptions {
	if o.MaxLength <= 0 {
		o.MaxLength = MaxLength
	}
	if o.Char == nil {
		o.Char = []string{"\n"}
	}
	return o
}

type piece struct {
	sep  string // boundary that preceded text
	text string
}

// Split splits text into chunks of at most opts.MaxLength characters.
//
// Text is broken at the boundaries listed in opts.Char: a piece is split at
// the next boundary only while it is still too long. Boundaries at chunk
// edges are dropped, and a piece that has no boundary within the limit is cut
// hard. Lengths are counted in Unicode code points.
func Split(text string, opts SplitOptions) ([]string, error) {
	opts = opts.withDefaults()
	if runeLen(text) <= opts.MaxLength {
		return []string{text}, nil
	}

	appendLen := runeLen(opts.Append)
	room := opts.MaxLength - runeLen(opts.Prepend) - appendLen
	if room < 1 {
		return nil, &SplitError{MaxLength: opts.MaxLength, Room: room}
	}

	pieces := explode(text, opts.Char, room)
	p := &packer{opts: opts}
	for i, pc := range pieces {
		tail := appendLen
		if i == len(pieces)-1 {
			tail = 0
		}

		if p.started {
			if p.len()+runeLen(pc.sep)+runeLen(pc.text)+tail <= opts.MaxLength {
				p.add(pc.sep + pc.text)
				continue
			}
			p.flush()
			if pc.text == "" {
				continue
			}
		}

		for p.len()+runeLen(pc.text)+tail > opts.MaxLength {
			n := opts.MaxLength - p.len() - appendLen
			head, rest := cutRunes(pc.text, n)
			p.add(head)
			p.flush()
			pc.text = rest
		}
		p.add(pc.text)
	}
	p.finish()
	return p.chunks, nil
}

// explode breaks text into pieces no longer than room where boundaries allow.
func explode(text string, chars []string, room int) []piece {
	pieces := []piece{{text: text}}
	tooLong := func(p piece) bool { return runeLen(p.text) > room }
	for _, char := range chars {
		if char == "" {
			continue
		}
		if !slices.ContainsFunc(pieces, tooLong) {
			break
		}
		next := make([]piece, 0, len(pieces))
		for _, p := range pieces {
			if !tooLong(p) {
				next = append(next, p)
				continue
			}
			for i, part := range strings.Split(p.text, char) {
				sep := char
				if i == 0 {
					sep = p.sep
				}
				next = append(next, piece{sep: sep, text: part})
			}
		}
		pieces = next
	}
	return pieces
}

// packer accumulates pieces into chunks.
type packer struct {
	opts    SplitOptions
	chunks  []string
	head    string // prepend of the current chunk; empty for the first one
	body    strings.Builder
	started bool
}

func (p *packer) len() int { return runeLen(p.head) + runeLen(p.body.String()) }

func (p *packer) add(s string) {
	p.body.WriteString(s)
	p.started = true
}

func (p *packer) flush() {
	p.started = false
	if p.body.Len() == 0 {
		return
	}
	p.chunks = append(p.chunks, p.head+p.body.String()+p.opts.Append)
	p.head = p.opts.Prepend
	p.body.Reset()
}

func (p *packer) finish() {
	if p.body.Len() > 0 {
		p.chunks = append(p.chunks, p.head+p.body.String())
	}
}

// cutRunes splits s after n code points.
func cutRunes(s string, n int) (head, tail string) {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos], s[pos:]
		}
		i++
	}
	return s, ""
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }
