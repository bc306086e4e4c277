// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package payload

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"go.astrophena.name/courier/internal/discord"
	"go.astrophena.name/courier/internal/discord/attach"
	"go.astrophena.name/courier/internal/discord/content"
	"go.astrophena.name/courier/internal/discord/target"
	"go.astrophena.name/courier/internal/util/syncx"

	"github.com/bwmarrin/discordgo"
)

// Builder builds the payload of one message for one target.
//
// Build, ResolveFiles and Split compute their results once; later calls
// return the stored result, including a stored error. A Builder is safe for
// concurrent use.
type Builder struct {
	target target.Target
	opts   Options
	cfg    Config
	slog   *slog.Logger

	payload syncx.Lazy[*Payload]
	files   syncx.Lazy[[]attach.Resolved]
	split   syncx.Lazy[[]*Builder]
}

// New returns a new Builder bound to t and opts.
func New(t target.Target, opts Options, cfg Config) *Builder {
	b := &Builder{
		target: t,
		opts:   opts,
		cfg:    cfg,
		slog:   cfg.Logger,
	}
	if b.slog == nil {
		b.slog = slog.Default()
	}
	return b
}

// Target returns the target b is bound to.
func (b *Builder) Target() target.Target { return b.target }

// Options returns the options b is bound to.
func (b *Builder) Options() Options { return b.opts }

// Build returns the payload. The returned payload must not be modified.
func (b *Builder) Build() (*Payload, error) {
	return b.payload.GetErr(b.build)
}

func (b *Builder) build() (*Payload, error) {
	t := b.target
	if !t.Known() {
		if b.cfg.Strict {
			return nil, fmt.Errorf("%w: %v", target.ErrUnknownTarget, t)
		}
		b.slog.Warn("unknown target, using channel dialect", slog.String("target", t.String()))
	}
	dialect := t.Dialect()

	split := b.opts.Split
	if split != nil && split.MaxLength == 0 && b.cfg.MaxLength > 0 {
		withLimit := *split
		withLimit.MaxLength = b.cfg.MaxLength
		split = &withLimit
	}

	formatted, err := content.Format(content.Input{
		Content: b.opts.Content,
		Code:    b.opts.Code,
		Split:   split,
	})
	if err != nil {
		return nil, err
	}

	p := &Payload{TTS: b.opts.TTS}
	if text, ok := formatted.Text(); ok {
		p.Content = &text
	} else if formatted.IsSplit() {
		p.chunks = formatted.Chunks
	}

	if p.Nonce, err = checkNonce(b.opts.Nonce); err != nil {
		return nil, err
	}

	if dialect.MultipleEmbeds() {
		p.Embeds = make([]*discordgo.MessageEmbed, 0, len(b.opts.Embeds))
		for i, e := range b.opts.Embeds {
			w, err := e.Wire()
			if err != nil {
				return nil, fmt.Errorf("embed %d: %w", i, err)
			}
			p.Embeds = append(p.Embeds, w)
		}
		if b.opts.Embed.IsSet() {
			b.slog.Debug("single embed ignored", slog.String("dialect", dialect.String()))
		}
	} else {
		switch e, ok := b.opts.Embed.Get(); {
		case ok:
			w, err := e.Wire()
			if err != nil {
				return nil, err
			}
			p.Embed = discord.Some(w)
		case b.opts.Embed.IsNull():
			p.Embed = discord.Null[*discordgo.MessageEmbed]()
		}
	}

	if b.opts.Components != nil {
		if p.Components, err = discord.NormalizeComponents(b.opts.Components); err != nil {
			return nil, err
		}
		if p.Components == nil {
			p.Components = []discordgo.MessageComponent{}
		}
	}

	if dialect == target.DialectWebhook {
		p.Username = b.opts.Username
		if p.Username == "" {
			p.Username = t.Name()
		}
		p.AvatarURL = b.opts.AvatarURL
	}

	p.Flags = b.flags()
	p.MessageReference = b.reference()

	mentions := b.opts.AllowedMentions
	if mentions == nil {
		mentions = b.cfg.AllowedMentions
	}
	// An edit without content must not re-apply the mention policy.
	if mentions != nil && (formatted.Set || p.MessageReference != nil) {
		p.AllowedMentions = mentions.Wire()
	}

	p.Attachments = b.opts.Attachments
	return p, nil
}

// flags returns the flags of the payload. An edited message takes the
// explicit flags or keeps its own; an ephemeral interaction response gets
// the ephemeral bit alone. Other payloads carry no flags.
func (b *Builder) flags() *discord.MessageFlags {
	var f discord.MessageFlags
	switch {
	case b.target.IsMessage() && b.opts.Flags != nil:
		f = *b.opts.Flags
	case b.target.IsMessage():
		f = b.target.Flags()
	case b.target.IsInteraction() && b.opts.Ephemeral:
		f = discord.FlagEphemeral
	default:
		if b.opts.Flags != nil || b.opts.Ephemeral {
			b.slog.Debug("flags ignored", slog.String("target", b.target.String()))
		}
		return nil
	}
	return &f
}

func (b *Builder) reference() *discord.MessageReference {
	reply := b.opts.Reply
	if reply == nil {
		return nil
	}
	var (
		id string
		ok bool
	)
	if msgs := b.target.Messages(); msgs != nil {
		id, ok = msgs.ResolveID(reply.MessageReference)
	}
	if !ok {
		b.slog.Debug("reply reference not resolved", slog.Any("reference", reply.MessageReference), slog.String("target", b.target.String()))
		return nil
	}
	ref := &discord.MessageReference{MessageID: id, FailIfNotExists: true}
	if reply.FailIfNotExists != nil {
		ref.FailIfNotExists = *reply.FailIfNotExists
	}
	return ref
}

func checkNonce(nonce any) (any, error) {
	if nonce == nil {
		return nil, nil
	}
	switch reflect.ValueOf(nonce).Kind() {
	case reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return nonce, nil
	}
	return nil, fmt.Errorf("%w: got %T", ErrInvalidNonce, nonce)
}

// Files returns the files to upload: the files of the options followed by
// the files of each embed the target's dialect uses, in order.
func (b *Builder) Files() []attach.File {
	files := append([]attach.File(nil), b.opts.Files...)
	if b.target.Dialect().MultipleEmbeds() {
		for _, e := range b.opts.Embeds {
			files = append(files, e.Files...)
		}
	} else if e, ok := b.opts.Embed.Get(); ok {
		files = append(files, e.Files...)
	}
	return files
}

// ResolveFiles resolves the files returned by Files concurrently, keeping
// their order. It fails as soon as any file fails to resolve.
//
// Resources of the result are read by the first upload. The context of the
// first call is the one used.
func (b *Builder) ResolveFiles(ctx context.Context) ([]attach.Resolved, error) {
	return b.files.GetErr(func() ([]attach.Resolved, error) {
		r := b.cfg.Resolver
		if r == nil {
			r = attach.NewResolver(attach.Config{Logger: b.slog})
		}
		return r.ResolveAll(ctx, b.Files())
	})
}
