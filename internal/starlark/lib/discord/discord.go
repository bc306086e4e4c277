// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package discord

import (
	"encoding/json"
	"fmt"

	"go.astrophena.name/courier/internal/discord"
	"go.astrophena.name/courier/internal/discord/content"
	"go.astrophena.name/courier/internal/discord/payload"
	"go.astrophena.name/courier/internal/discord/target"
	"go.astrophena.name/courier/internal/starlark/go2star"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
)

// Config configures the module.
type Config struct {
	// Payload is the configuration of payload builders.
	Payload payload.Config
	// Built, if not nil, is called with the builders of every payload call.
	Built func([]*payload.Builder)
}

// Module returns a Starlark module that builds Discord message payloads.
// See the package documentation for its members.
func Module(cfg Config) *starlarkstruct.Module {
	m := &module{cfg: cfg}
	return &starlarkstruct.Module{
		Name: "discord",
		Members: starlark.StringDict{
			"channel":             starlark.NewBuiltin("discord.channel", m.withMessages(target.Channel)),
			"user":                starlark.NewBuiltin("discord.user", m.withMessages(target.User)),
			"message":             starlark.NewBuiltin("discord.message", m.message),
			"webhook":             starlark.NewBuiltin("discord.webhook", m.webhook),
			"interaction":         starlark.NewBuiltin("discord.interaction", m.withMessages(target.Interaction)),
			"interaction_webhook": starlark.NewBuiltin("discord.interaction_webhook", m.interactionWebhook),
			"payload":             starlark.NewBuiltin("discord.payload", m.payload),
			"split":               starlark.NewBuiltin("discord.split", m.split),
			"escape_code_block":   starlark.NewBuiltin("discord.escape_code_block", m.escapeCodeBlock),
		},
	}
}

type module struct {
	cfg Config
}

type builtinFunc = func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error)

func (m *module) withMessages(mk func(string, target.Messages) target.Target) builtinFunc {
	return func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var (
			id       string
			messages *starlark.List
		)
		if err := starlark.UnpackArgs(b.Name(), args, kwargs, "id", &id, "messages?", &messages); err != nil {
			return nil, err
		}
		set, err := messageSet(messages)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.Name(), err)
		}
		return Target{t: mk(id, set)}, nil
	}
}

func (m *module) message(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		id       string
		flags    int
		messages *starlark.List
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "id", &id, "flags?", &flags, "messages?", &messages); err != nil {
		return nil, err
	}
	set, err := messageSet(messages)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	return Target{t: target.Message(id, discord.MessageFlags(flags), set)}, nil
}

func (m *module) webhook(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var id, name, avatar string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "id", &id, "name?", &name, "avatar?", &avatar); err != nil {
		return nil, err
	}
	return Target{t: target.Webhook(id, name, avatar)}, nil
}

func (m *module) interactionWebhook(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var id string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "id", &id); err != nil {
		return nil, err
	}
	return Target{t: target.InteractionWebhook(id)}, nil
}

func messageSet(list *starlark.List) (target.MessageSet, error) {
	set := target.NewMessageSet()
	if list == nil {
		return set, nil
	}
	for i := range list.Len() {
		id, ok := starlark.AsString(list.Index(i))
		if !ok {
			return nil, fmt.Errorf("messages[%d]: want a string, got %s", i, list.Index(i).Type())
		}
		set.Add(id)
	}
	return set, nil
}

func (m *module) payload(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%s: want exactly one positional argument (target), got %d", b.Name(), len(args))
	}
	tv, ok := args[0].(Target)
	if !ok {
		return nil, fmt.Errorf("%s: want a target, got %s", b.Name(), args[0].Type())
	}

	raw := make(map[string]any, len(kwargs))
	for _, kv := range kwargs {
		key := string(kv[0].(starlark.String))
		val, err := go2star.From(kv[1])
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", b.Name(), key, err)
		}
		raw[key] = val
	}
	opts, err := payload.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}

	builders, err := payload.New(tv.t, opts, m.cfg.Payload).Split()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	if m.cfg.Built != nil {
		m.cfg.Built(builders)
	}

	out := make([]starlark.Value, len(builders))
	for i, bl := range builders {
		p, err := bl.Build()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.Name(), err)
		}
		v, err := toDict(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.Name(), err)
		}
		out[i] = v
	}
	return starlark.NewList(out), nil
}

// toDict converts a payload through its wire form, so that the dict has the
// same keys as the JSON sent to the service.
func toDict(p *payload.Payload) (starlark.Value, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	var wire map[string]any
	if err := json.Unmarshal(b, &wire); err != nil {
		return nil, err
	}
	return go2star.To(wire)
}

func (m *module) split(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var (
		text      string
		maxLength int
		char      starlark.Value = starlark.None
		pre, post string
	)
	if err := starlark.UnpackArgs(b.Name(), args, kwargs,
		"text", &text,
		"max_length?", &maxLength,
		"char?", &char,
		"prepend?", &pre,
		"append?", &post,
	); err != nil {
		return nil, err
	}

	opts := content.SplitOptions{MaxLength: maxLength, Prepend: pre, Append: post}
	switch c := char.(type) {
	case starlark.NoneType:
	case starlark.String:
		opts.Char = []string{string(c)}
	case *starlark.List:
		for i := range c.Len() {
			s, ok := starlark.AsString(c.Index(i))
			if !ok {
				return nil, fmt.Errorf("%s: char[%d]: want a string, got %s", b.Name(), i, c.Index(i).Type())
			}
			opts.Char = append(opts.Char, s)
		}
	default:
		return nil, fmt.Errorf("%s: char: want a string or a list, got %s", b.Name(), char.Type())
	}

	chunks, err := content.Split(text, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", b.Name(), err)
	}
	return go2star.To(chunks)
}

func (m *module) escapeCodeBlock(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var text string
	if err := starlark.UnpackArgs(b.Name(), args, kwargs, "text", &text); err != nil {
		return nil, err
	}
	return starlark.String(content.EscapeCodeBlock(text)), nil
}

// Target is a send target as a Starlark value.
type Target struct {
	t target.Target
}

var (
	_ starlark.Value    = Target{}
	_ starlark.HasAttrs = Target{}
)

// Unwrap returns the target.
func (v Target) Unwrap() target.Target { return v.t }

func (v Target) String() string        { return fmt.Sprintf("<discord.target %s>", v.t) }
func (v Target) Type() string          { return "discord.target" }
func (v Target) Freeze()               {}
func (v Target) Truth() starlark.Bool  { return starlark.Bool(v.t.Known()) }
func (v Target) Hash() (uint32, error) { return starlark.String(v.t.String()).Hash() }

// Attr implements [starlark.HasAttrs].
func (v Target) Attr(name string) (starlark.Value, error) {
	switch name {
	case "kind":
		return starlark.String(v.t.Kind().String()), nil
	case "id":
		return starlark.String(v.t.ID()), nil
	}
	return nil, nil
}

// AttrNames implements [starlark.HasAttrs].
func (v Target) AttrNames() []string { return []string{"id", "kind"} }
