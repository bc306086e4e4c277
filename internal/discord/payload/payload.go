// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package payload builds the wire payload of an outgoing message from send
// options.
//
// A [Builder] is bound to one target and one set of options. It builds the
// payload, resolves attached files and splits long content into several
// messages, computing each of these at most once.
package payload

import (
	"errors"
	"log/slog"
	"slices"

	"go.astrophena.name/courier/internal/discord"
	"go.astrophena.name/courier/internal/discord/attach"
	"go.astrophena.name/courier/internal/discord/content"

	"github.com/bwmarrin/discordgo"
)

// ErrInvalidNonce is returned when a nonce is neither an integer nor a
// string.
var ErrInvalidNonce = errors.New("nonce must be an integer or a string")

// Options are the send options.
type Options struct {
	// Content is the message text. Absent content is omitted from the
	// payload; null content is sent as an empty string.
	Content discord.Nullable[string]
	TTS     bool
	// Nonce is an integer or a string.
	Nonce any

	// Embed is used by channel and user targets. An explicit null removes
	// the embed of an edited message.
	Embed discord.Nullable[discord.Embed]
	// Embeds are used by webhook and interaction targets.
	Embeds []discord.Embed

	// Components are action rows or bare components. Runs of bare
	// components are wrapped into action rows.
	Components []discord.Component

	Files []attach.File
	// Attachments describe attachments that already exist. They are passed
	// through unchanged.
	Attachments []discord.Attachment

	// AllowedMentions overrides Config.AllowedMentions.
	AllowedMentions *discord.AllowedMentions
	Reply           *Reply

	// Ephemeral makes an interaction response visible only to its invoker.
	Ephemeral bool
	// Flags replace the flags of an edited message. Other targets ignore
	// them.
	Flags *discord.MessageFlags

	// Username and AvatarURL override the identity of a webhook.
	Username  string
	AvatarURL string

	// Split, if not nil, splits long content into several messages.
	Split *content.SplitOptions
	Code  content.Code
}

// Reply makes a message reply to another message.
type Reply struct {
	// MessageReference is a message, a message identifier or anything the
	// message collection of the target can resolve.
	MessageReference any
	// FailIfNotExists defaults to true.
	FailIfNotExists *bool
}

// Config is the configuration shared by builders.
type Config struct {
	// AllowedMentions is the default mention policy.
	AllowedMentions *discord.AllowedMentions
	// Resolver resolves attached files. If nil, a resolver with the default
	// loader is used.
	Resolver *attach.Resolver
	// Strict makes building for an unknown target fail instead of falling
	// back to the channel dialect.
	Strict bool
	// MaxLength is the split limit used when split options leave it unset.
	// Zero means content.MaxLength.
	MaxLength int
	Logger    *slog.Logger
}

// Payload is the wire form of a message.
//
// At most one of Embed and Embeds is populated: Embeds for webhook and
// interaction targets, Embed for the rest.
type Payload struct {
	Content          *string                                   `json:"content,omitempty"`
	TTS              bool                                      `json:"tts"`
	Nonce            any                                       `json:"nonce,omitempty"`
	Embed            discord.Nullable[*discordgo.MessageEmbed] `json:"embed,omitzero"`
	Embeds           []*discordgo.MessageEmbed                 `json:"embeds,omitzero"`
	Components       []discordgo.MessageComponent              `json:"components,omitzero"`
	Username         string                                    `json:"username,omitempty"`
	AvatarURL        string                                    `json:"avatar_url,omitempty"`
	AllowedMentions  *discordgo.MessageAllowedMentions         `json:"allowed_mentions,omitempty"`
	Flags            *discord.MessageFlags                     `json:"flags,omitempty"`
	MessageReference *discord.MessageReference                 `json:"message_reference,omitempty"`
	Attachments      []discord.Attachment                      `json:"attachments,omitzero"`

	// chunks holds split content. When there is more than one chunk, Content
	// is nil and the payload must be split before sending.
	chunks []string
}

// Chunks returns the content chunks of a payload whose content was split
// into several messages, or nil.
func (p *Payload) Chunks() []string {
	if len(p.chunks) < 2 {
		return nil
	}
	return slices.Clone(p.chunks)
}
