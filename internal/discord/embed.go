// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package discord

import (
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"go.astrophena.name/courier/internal/discord/attach"

	"github.com/bwmarrin/discordgo"
)

// ErrInvalidEmbed is returned when an embed breaks a service limit.
var ErrInvalidEmbed = errors.New("invalid embed")

// Embed limits enforced by the service.
const (
	MaxEmbedTitle       = 256
	MaxEmbedDescription = 4096
	MaxEmbedFields      = 25
	MaxEmbedFieldName   = 256
	MaxEmbedFieldValue  = 1024
	MaxEmbedFooter      = 2048
	MaxEmbedAuthorName  = 256
	MaxEmbedTotal       = 6000
)

// Embed is a rich embed as callers describe it.
type Embed struct {
	discordgo.MessageEmbed

	// Files are uploaded along with the message carrying the embed, so that
	// the embed can reference them as attachment://<name>.
	Files []attach.File `json:"-"`
}

// Wire validates e and returns its wire form.
func (e Embed) Wire() (*discordgo.MessageEmbed, error) {
	if e.Color < 0 || e.Color > 0xFFFFFF {
		return nil, fmt.Errorf("%w: color %#x is out of range", ErrInvalidEmbed, e.Color)
	}
	if len(e.Fields) > MaxEmbedFields {
		return nil, fmt.Errorf("%w: %d fields, at most %d allowed", ErrInvalidEmbed, len(e.Fields), MaxEmbedFields)
	}

	total := 0
	check := func(what, s string, limit int) error {
		n := utf8.RuneCountInString(s)
		if n > limit {
			return fmt.Errorf("%w: %s is %d characters long, at most %d allowed", ErrInvalidEmbed, what, n, limit)
		}
		total += n
		return nil
	}

	if err := check("title", e.Title, MaxEmbedTitle); err != nil {
		return nil, err
	}
	if err := check("description", e.Description, MaxEmbedDescription); err != nil {
		return nil, err
	}
	if e.Footer != nil {
		if err := check("footer text", e.Footer.Text, MaxEmbedFooter); err != nil {
			return nil, err
		}
	}
	if e.Author != nil {
		if err := check("author name", e.Author.Name, MaxEmbedAuthorName); err != nil {
			return nil, err
		}
	}
	for i, f := range e.Fields {
		if f == nil || f.Name == "" || f.Value == "" {
			return nil, fmt.Errorf("%w: field %d needs both a name and a value", ErrInvalidEmbed, i)
		}
		if err := check(fmt.Sprintf("field %d name", i), f.Name, MaxEmbedFieldName); err != nil {
			return nil, err
		}
		if err := check(fmt.Sprintf("field %d value", i), f.Value, MaxEmbedFieldValue); err != nil {
			return nil, err
		}
	}
	if total > MaxEmbedTotal {
		return nil, fmt.Errorf("%w: %d characters in total, at most %d allowed", ErrInvalidEmbed, total, MaxEmbedTotal)
	}

	w := e.MessageEmbed
	if w.Type == "" {
		w.Type = discordgo.EmbedTypeRich
	}
	if w.Timestamp != "" {
		ts, err := time.Parse(time.RFC3339, w.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("%w: timestamp %q is not in RFC 3339 format", ErrInvalidEmbed, w.Timestamp)
		}
		w.Timestamp = ts.UTC().Format(time.RFC3339)
	}
	w.Footer = clonePtr(w.Footer)
	w.Image = clonePtr(w.Image)
	w.Thumbnail = clonePtr(w.Thumbnail)
	w.Video = clonePtr(w.Video)
	w.Provider = clonePtr(w.Provider)
	w.Author = clonePtr(w.Author)
	w.Fields = make([]*discordgo.MessageEmbedField, len(e.Fields))
	for i, f := range e.Fields {
		w.Fields[i] = clonePtr(f)
	}
	if len(w.Fields) == 0 {
		w.Fields = nil
	}
	return &w, nil
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
