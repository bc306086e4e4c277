// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package discord defines the wire form of outgoing Discord messages: embeds,
// components, mention policy, message references and flags, together with
// the normalizers that turn loosely filled values into that form.
package discord

import (
	"bytes"
	"encoding/json"

	"github.com/bwmarrin/discordgo"
)

// Nullable is a value that can be absent, explicitly null or set.
//
// The zero Nullable is absent. Fields of this type should be tagged
// `json:",omitzero"` so that absent values are omitted and null values are
// sent as JSON null.
type Nullable[T any] struct {
	val   T
	set   bool
	valid bool
}

// Some returns a Nullable holding v.
func Some[T any](v T) Nullable[T] { return Nullable[T]{val: v, set: true, valid: true} }

// Null returns an explicitly null Nullable.
func Null[T any]() Nullable[T] { return Nullable[T]{set: true} }

// Get returns the held value and whether there is one.
func (n Nullable[T]) Get() (T, bool) { return n.val, n.valid }

// IsSet reports whether n is null or holds a value.
func (n Nullable[T]) IsSet() bool { return n.set }

// IsNull reports whether n is explicitly null.
func (n Nullable[T]) IsNull() bool { return n.set && !n.valid }

// IsZero reports whether n is absent.
func (n Nullable[T]) IsZero() bool { return !n.set }

// MarshalJSON implements [json.Marshaler].
func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if !n.valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.val)
}

// UnmarshalJSON implements [json.Unmarshaler].
func (n *Nullable[T]) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*n = Null[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = Some(v)
	return nil
}

// MessageFlags is the message flags bit field.
type MessageFlags = discordgo.MessageFlags

// Message flags.
const (
	FlagCrossposted           MessageFlags = 1 << 0
	FlagIsCrosspost           MessageFlags = 1 << 1
	FlagSuppressEmbeds        MessageFlags = 1 << 2
	FlagSourceMessageDeleted  MessageFlags = 1 << 3
	FlagUrgent                MessageFlags = 1 << 4
	FlagHasThread             MessageFlags = 1 << 5
	FlagEphemeral             MessageFlags = 1 << 6
	FlagLoading               MessageFlags = 1 << 7
	FlagSuppressNotifications MessageFlags = 1 << 12
)

// HasFlags reports whether all bits of flag are set in f.
func HasFlags(f, flag MessageFlags) bool { return f&flag == flag }

// MessageReference points a message at the message it replies to.
//
// It is not [discordgo.MessageReference]: replies carry exactly these two
// fields.
type MessageReference struct {
	MessageID       string `json:"message_id"`
	FailIfNotExists bool   `json:"fail_if_not_exists"`
}

// Attachment is metadata of an attachment that already exists, sent when
// editing a message to keep or describe it. Unlike
// [discordgo.MessageAttachment] it omits what the caller did not set.
type Attachment struct {
	ID          string `json:"id"`
	Filename    string `json:"filename,omitempty"`
	Description string `json:"description,omitempty"`
}
