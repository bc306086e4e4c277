// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package target

import (
	"fmt"

	"go.astrophena.name/courier/internal/discord"
)

// Spec describes a target in configuration files. Messages lists identifiers
// of known messages that replies can refer to.
type Spec struct {
	// Kind is the name of a Kind. An empty Kind describes an unknown target.
	Kind     string               `json:"kind" yaml:"kind"`
	ID       string               `json:"id,omitempty" yaml:"id,omitempty"`
	Name     string               `json:"name,omitempty" yaml:"name,omitempty"`
	Avatar   string               `json:"avatar,omitempty" yaml:"avatar,omitempty"`
	Flags    discord.MessageFlags `json:"flags,omitempty" yaml:"flags,omitempty"`
	Messages []string             `json:"messages,omitempty" yaml:"messages,omitempty"`
}

// Target builds the target s describes.
func (s Spec) Target() (Target, error) {
	if s.Kind == "" {
		return Target{id: s.ID}, nil
	}
	kind, err := ParseKind(s.Kind)
	if err != nil {
		return Target{}, err
	}
	msgs := NewMessageSet(s.Messages...)
	switch kind {
	case KindChannel:
		return Channel(s.ID, msgs), nil
	case KindUser:
		return User(s.ID, msgs), nil
	case KindMessage:
		return Message(s.ID, s.Flags, msgs), nil
	case KindWebhook:
		return Webhook(s.ID, s.Name, s.Avatar), nil
	case KindInteraction:
		return Interaction(s.ID, msgs), nil
	case KindInteractionWebhook:
		return InteractionWebhook(s.ID), nil
	}
	return Target{}, fmt.Errorf("%w: %v", ErrUnknownTarget, kind)
}
