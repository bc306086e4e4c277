// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package target describes where a message is sent.
//
// A [Target] is constructed once, when the caller obtains the destination, and
// carries its kind explicitly. The kind decides which payload dialect applies.
package target

import (
	"errors"
	"fmt"
	"strconv"

	"go.astrophena.name/courier/internal/discord"
)

// ErrUnknownTarget is returned in strict mode for a target that was not built
// by one of the constructors in this package.
var ErrUnknownTarget = errors.New("unknown send target")

// Kind is the kind of a target.
type Kind int

// Target kinds.
const (
	KindUnknown Kind = iota
	KindChannel
	KindUser
	KindMessage
	KindWebhook
	KindInteraction
	KindInteractionWebhook
)

var kindNames = map[Kind]string{
	KindUnknown:            "unknown",
	KindChannel:            "channel",
	KindUser:               "user",
	KindMessage:            "message",
	KindWebhook:            "webhook",
	KindInteraction:        "interaction",
	KindInteractionWebhook: "interaction_webhook",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind returns the kind named s, as printed by [Kind.String].
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s && k != KindUnknown {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("%w: %q", ErrUnknownTarget, s)
}

// Dialect is the set of payload rules a target follows.
type Dialect int

// Payload dialects.
const (
	// DialectChannel is used for channels and for editing sent messages. It
	// takes a single embed.
	DialectChannel Dialect = iota
	// DialectUser is used for direct messages. It takes a single embed.
	DialectUser
	// DialectWebhook takes a list of embeds and a webhook identity.
	DialectWebhook
	// DialectInteraction takes a list of embeds and may be ephemeral.
	DialectInteraction
)

func (d Dialect) String() string {
	switch d {
	case DialectChannel:
		return "channel"
	case DialectUser:
		return "user"
	case DialectWebhook:
		return "webhook"
	case DialectInteraction:
		return "interaction"
	}
	return "Dialect(" + strconv.Itoa(int(d)) + ")"
}

// MultipleEmbeds reports whether payloads of d carry a list of embeds
// instead of a single one.
func (d Dialect) MultipleEmbeds() bool {
	return d == DialectWebhook || d == DialectInteraction
}

// Target is a destination of a message. The zero Target has [KindUnknown].
type Target struct {
	kind     Kind
	id       string
	name     string
	avatar   string
	flags    discord.MessageFlags
	messages Messages
}

// Channel returns a text channel target whose sent messages are known to
// messages.
func Channel(id string, messages Messages) Target {
	return Target{kind: KindChannel, id: id, messages: messages}
}

// User returns a direct message target.
func User(id string, messages Messages) Target {
	return Target{kind: KindUser, id: id, messages: messages}
}

// Message returns a target for editing the sent message id, which currently
// has flags set. channelMessages is the collection of the channel the
// message belongs to.
func Message(id string, flags discord.MessageFlags, channelMessages Messages) Target {
	return Target{kind: KindMessage, id: id, flags: flags, messages: channelMessages}
}

// Webhook returns a webhook target with its configured name and avatar.
func Webhook(id, name, avatar string) Target {
	return Target{kind: KindWebhook, id: id, name: name, avatar: avatar}
}

// Interaction returns a target for replying to an interaction.
func Interaction(id string, messages Messages) Target {
	return Target{kind: KindInteraction, id: id, messages: messages}
}

// InteractionWebhook returns a target for follow-up messages of the
// interaction whose application id is id.
func InteractionWebhook(id string) Target {
	return Target{kind: KindInteractionWebhook, id: id}
}

// Kind returns the kind of t.
func (t Target) Kind() Kind { return t.kind }

// ID returns the identifier of t.
func (t Target) ID() string { return t.id }

// Name returns the configured name of a webhook.
func (t Target) Name() string { return t.name }

// Avatar returns the configured avatar of a webhook.
func (t Target) Avatar() string { return t.avatar }

// Flags returns the current flags of a sent message.
func (t Target) Flags() discord.MessageFlags { return t.flags }

// Messages returns the message collection used to resolve replies, or nil.
func (t Target) Messages() Messages { return t.messages }

// Known reports whether t was built by one of the constructors.
func (t Target) Known() bool {
	_, ok := kindNames[t.kind]
	return ok && t.kind != KindUnknown
}

// IsWebhook reports whether t is a webhook.
func (t Target) IsWebhook() bool { return t.kind == KindWebhook }

// IsUser reports whether t is a user.
func (t Target) IsUser() bool { return t.kind == KindUser }

// IsMessage reports whether t is a sent message being edited.
func (t Target) IsMessage() bool { return t.kind == KindMessage }

// IsInteraction reports whether t is an interaction or its webhook.
func (t Target) IsInteraction() bool {
	return t.kind == KindInteraction || t.kind == KindInteractionWebhook
}

// Dialect returns the payload dialect of t. Unknown targets use
// [DialectChannel].
func (t Target) Dialect() Dialect {
	switch {
	case t.IsWebhook():
		return DialectWebhook
	case t.IsInteraction():
		return DialectInteraction
	case t.IsUser():
		return DialectUser
	default:
		return DialectChannel
	}
}

func (t Target) String() string {
	if t.id == "" {
		return t.kind.String()
	}
	return t.kind.String() + " " + t.id
}
