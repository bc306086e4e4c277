// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package discord

import (
	"slices"

	"github.com/bwmarrin/discordgo"
)

// MentionType is a kind of mention that can be parsed from content.
type MentionType = discordgo.AllowedMentionType

// Mention types.
const (
	MentionRoles    MentionType = discordgo.AllowedMentionTypeRoles
	MentionUsers    MentionType = discordgo.AllowedMentionTypeUsers
	MentionEveryone MentionType = discordgo.AllowedMentionTypeEveryone
)

// AllowedMentions is the mention policy as callers configure it.
//
// A nil Parse leaves parsing to the service default; an empty non-nil Parse
// suppresses all parsed mentions.
type AllowedMentions struct {
	Parse       []MentionType `json:"parse,omitzero"`
	Roles       []string      `json:"roles,omitempty"`
	Users       []string      `json:"users,omitempty"`
	RepliedUser *bool         `json:"repliedUser,omitempty"`
}

// Wire returns the wire form of m, where repliedUser is sent as
// replied_user. An unset RepliedUser does not mention the replied user.
func (m AllowedMentions) Wire() *discordgo.MessageAllowedMentions {
	w := &discordgo.MessageAllowedMentions{
		Parse: slices.Clone(m.Parse),
		Roles: slices.Clone(m.Roles),
		Users: slices.Clone(m.Users),
	}
	if m.RepliedUser != nil {
		w.RepliedUser = *m.RepliedUser
	}
	return w
}
