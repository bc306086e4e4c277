// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package discord

import (
	"errors"
	"fmt"
	"slices"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
)

// ErrInvalidComponent is returned when a message component is malformed.
var ErrInvalidComponent = errors.New("invalid component")

// Component limits enforced by the service.
const (
	MaxActionRows     = 5
	MaxRowComponents  = 5
	MaxSelectOptions  = 25
	MaxButtonLabel    = 80
	MaxCustomID       = 100
	MaxPlaceholder    = 150
	MaxSelectOptLabel = 100
)

// ComponentType is the type of a message component.
type ComponentType = discordgo.ComponentType

// Component types.
const (
	ComponentActionRow         = discordgo.ActionsRowComponent
	ComponentButton            = discordgo.ButtonComponent
	ComponentStringSelect      = discordgo.SelectMenuComponent
	ComponentTextInput         = discordgo.TextInputComponent
	ComponentUserSelect        = discordgo.UserSelectMenuComponent
	ComponentRoleSelect        = discordgo.RoleSelectMenuComponent
	ComponentMentionableSelect = discordgo.MentionableSelectMenuComponent
	ComponentChannelSelect     = discordgo.ChannelSelectMenuComponent
)

func isSelect(t ComponentType) bool {
	switch t {
	case ComponentStringSelect, ComponentUserSelect, ComponentRoleSelect, ComponentMentionableSelect, ComponentChannelSelect:
		return true
	}
	return false
}

// ButtonStyle is the style of a button.
type ButtonStyle = discordgo.ButtonStyle

// Button styles.
const (
	ButtonPrimary   = discordgo.PrimaryButton
	ButtonSecondary = discordgo.SecondaryButton
	ButtonSuccess   = discordgo.SuccessButton
	ButtonDanger    = discordgo.DangerButton
	ButtonLink      = discordgo.LinkButton
)

// Emoji is a partial emoji used on buttons and select options.
type Emoji = discordgo.ComponentEmoji

// SelectOption is an option of a string select menu.
type SelectOption = discordgo.SelectMenuOption

// Component is an interactive message component as callers describe it: an
// action row, a button or a select menu. Its wire form is a
// [discordgo.MessageComponent].
type Component struct {
	Type        ComponentType  `json:"type"`
	CustomID    string         `json:"custom_id,omitempty"`
	Style       ButtonStyle    `json:"style,omitempty"`
	Label       string         `json:"label,omitempty"`
	Emoji       *Emoji         `json:"emoji,omitempty"`
	URL         string         `json:"url,omitempty"`
	Disabled    bool           `json:"disabled,omitempty"`
	Placeholder string         `json:"placeholder,omitempty"`
	MinValues   *int           `json:"min_values,omitempty"`
	MaxValues   *int           `json:"max_values,omitempty"`
	Options     []SelectOption `json:"options,omitempty"`
	Components  []Component    `json:"components,omitempty"`
}

// ActionRow returns an action row holding cs.
func ActionRow(cs ...Component) Component {
	return Component{Type: ComponentActionRow, Components: cs}
}

// NormalizeComponents returns the wire form of top-level message components.
//
// Entries that are not action rows are wrapped: every run of consecutive
// non-row entries becomes one action row, so a bare list of buttons turns
// into a single row.
func NormalizeComponents(cs []Component) ([]discordgo.MessageComponent, error) {
	if len(cs) == 0 {
		return nil, nil
	}

	var (
		rows []Component
		run  []Component
	)
	flush := func() {
		if len(run) > 0 {
			rows = append(rows, ActionRow(run...))
			run = nil
		}
	}
	for _, c := range cs {
		if c.Type == ComponentActionRow {
			flush()
			rows = append(rows, c)
			continue
		}
		run = append(run, c)
	}
	flush()

	if len(rows) > MaxActionRows {
		return nil, fmt.Errorf("%w: %d action rows, at most %d allowed", ErrInvalidComponent, len(rows), MaxActionRows)
	}
	out := make([]discordgo.MessageComponent, len(rows))
	for i, row := range rows {
		w, err := row.Wire()
		if err != nil {
			return nil, fmt.Errorf("action row %d: %w", i, err)
		}
		out[i] = w
	}
	return out, nil
}

// Wire validates c and returns its wire form.
func (c Component) Wire() (discordgo.MessageComponent, error) {
	switch {
	case c.Type == ComponentActionRow:
		return c.wireRow()
	case c.Type == ComponentButton:
		return c.wireButton()
	case isSelect(c.Type):
		return c.wireSelect()
	case c.Type == ComponentTextInput:
		return nil, fmt.Errorf("%w: text inputs are only allowed in modals", ErrInvalidComponent)
	default:
		return nil, fmt.Errorf("%w: unknown component type %d", ErrInvalidComponent, c.Type)
	}
}

func (c Component) wireRow() (discordgo.MessageComponent, error) {
	n := len(c.Components)
	if n == 0 || n > MaxRowComponents {
		return nil, fmt.Errorf("%w: action row holds %d components, want 1 to %d", ErrInvalidComponent, n, MaxRowComponents)
	}
	row := discordgo.ActionsRow{Components: make([]discordgo.MessageComponent, n)}
	for i, child := range c.Components {
		if child.Type == ComponentActionRow {
			return nil, fmt.Errorf("%w: action rows cannot be nested", ErrInvalidComponent)
		}
		if isSelect(child.Type) && n > 1 {
			return nil, fmt.Errorf("%w: a select menu must be alone in its action row", ErrInvalidComponent)
		}
		cw, err := child.Wire()
		if err != nil {
			return nil, err
		}
		row.Components[i] = cw
	}
	return row, nil
}

func (c Component) wireButton() (discordgo.MessageComponent, error) {
	style := c.Style
	if style == 0 {
		style = ButtonPrimary
		if c.URL != "" {
			style = ButtonLink
		}
	}
	if style < ButtonPrimary || style > ButtonLink {
		return nil, fmt.Errorf("%w: unknown button style %d", ErrInvalidComponent, style)
	}
	if c.Label == "" && c.Emoji == nil {
		return nil, fmt.Errorf("%w: button needs a label or an emoji", ErrInvalidComponent)
	}
	if n := utf8.RuneCountInString(c.Label); n > MaxButtonLabel {
		return nil, fmt.Errorf("%w: button label is %d characters long, at most %d allowed", ErrInvalidComponent, n, MaxButtonLabel)
	}
	if style == ButtonLink {
		if c.URL == "" || c.CustomID != "" {
			return nil, fmt.Errorf("%w: link buttons need a url and no custom_id", ErrInvalidComponent)
		}
	} else {
		if c.URL != "" {
			return nil, fmt.Errorf("%w: only link buttons can have a url", ErrInvalidComponent)
		}
		if err := checkCustomID(c.CustomID); err != nil {
			return nil, err
		}
	}
	return discordgo.Button{
		Label:    c.Label,
		Style:    style,
		Disabled: c.Disabled,
		Emoji:    clonePtr(c.Emoji),
		URL:      c.URL,
		CustomID: c.CustomID,
	}, nil
}

func (c Component) wireSelect() (discordgo.MessageComponent, error) {
	if err := checkCustomID(c.CustomID); err != nil {
		return nil, err
	}
	if n := utf8.RuneCountInString(c.Placeholder); n > MaxPlaceholder {
		return nil, fmt.Errorf("%w: placeholder is %d characters long, at most %d allowed", ErrInvalidComponent, n, MaxPlaceholder)
	}
	if c.Type == ComponentStringSelect {
		if n := len(c.Options); n == 0 || n > MaxSelectOptions {
			return nil, fmt.Errorf("%w: select menu has %d options, want 1 to %d", ErrInvalidComponent, n, MaxSelectOptions)
		}
		for i, o := range c.Options {
			if o.Label == "" || o.Value == "" {
				return nil, fmt.Errorf("%w: select option %d needs a label and a value", ErrInvalidComponent, i)
			}
			if utf8.RuneCountInString(o.Label) > MaxSelectOptLabel {
				return nil, fmt.Errorf("%w: select option %d label is too long", ErrInvalidComponent, i)
			}
		}
	} else if len(c.Options) > 0 {
		return nil, fmt.Errorf("%w: only string select menus take options", ErrInvalidComponent)
	}
	if c.MinValues != nil && c.MaxValues != nil && *c.MinValues > *c.MaxValues {
		return nil, fmt.Errorf("%w: min_values %d is greater than max_values %d", ErrInvalidComponent, *c.MinValues, *c.MaxValues)
	}
	menu := discordgo.SelectMenu{
		MenuType:    discordgo.SelectMenuType(c.Type),
		CustomID:    c.CustomID,
		Placeholder: c.Placeholder,
		MinValues:   clonePtr(c.MinValues),
		Options:     slices.Clone(c.Options),
		Disabled:    c.Disabled,
	}
	if c.MaxValues != nil {
		menu.MaxValues = *c.MaxValues
	}
	return menu, nil
}

func checkCustomID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: custom_id is required", ErrInvalidComponent)
	}
	if n := utf8.RuneCountInString(id); n > MaxCustomID {
		return fmt.Errorf("%w: custom_id is %d characters long, at most %d allowed", ErrInvalidComponent, n, MaxCustomID)
	}
	return nil
}
