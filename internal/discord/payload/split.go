// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package payload

import (
	"go.astrophena.name/courier/internal/discord"
	"go.astrophena.name/courier/internal/discord/content"
)

// Split returns one builder per message of a payload whose content was
// split. A payload with unsplit content yields b itself.
//
// Only the last message keeps embeds, components, attachments, files and
// flags; the ones before it carry content, tts and the mention policy. The
// returned builders already hold their payloads.
func (b *Builder) Split() ([]*Builder, error) {
	return b.split.GetErr(b.doSplit)
}

func (b *Builder) doSplit() ([]*Builder, error) {
	p, err := b.Build()
	if err != nil {
		return nil, err
	}
	if len(p.chunks) < 2 {
		return []*Builder{b}, nil
	}

	out := make([]*Builder, len(p.chunks))
	for i, chunk := range p.chunks {
		text := chunk
		var (
			opts Options
			sp   *Payload
		)
		if i == len(p.chunks)-1 {
			cp := *p
			cp.Content = &text
			cp.chunks = nil
			sp = &cp

			opts = b.opts
			// Chunk text is already formatted.
			opts.Split = nil
			opts.Code = content.Code{}
		} else {
			sp = &Payload{
				Content:         &text,
				TTS:             p.TTS,
				AllowedMentions: p.AllowedMentions,
			}
			opts = Options{
				TTS:             b.opts.TTS,
				AllowedMentions: b.opts.AllowedMentions,
			}
		}
		opts.Content = discord.Some(chunk)

		sib := New(b.target, opts, b.cfg)
		sib.payload.Fill(sp)
		out[i] = sib
	}
	return out, nil
}
