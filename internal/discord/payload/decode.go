// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package payload

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"math"
	"reflect"
	"slices"

	"go.astrophena.name/courier/internal/discord"
	"go.astrophena.name/courier/internal/discord/attach"
	"go.astrophena.name/courier/internal/discord/content"
)

var (
	// ErrUnknownOption is returned by Decode for an option it does not know.
	ErrUnknownOption = errors.New("unknown option")
	// ErrInvalidOption is returned by Decode for an option value of the
	// wrong shape.
	ErrInvalidOption = errors.New("invalid option")
)

// Decode converts loosely typed send options, as read from JSON, YAML or a
// script, into Options. Keys use the camel case names of the options:
// content, tts, nonce, embed, embeds, components, files, attachments,
// allowedMentions, reply, ephemeral, flags, username, avatarURL, split and
// code.
//
// Content that is not a string or null fails with
// [content.ErrInvalidContentType] and a nonce that is not an integer or a
// string fails with [ErrInvalidNonce].
func Decode(m map[string]any) (Options, error) {
	var opts Options
	for _, key := range slices.Sorted(maps.Keys(m)) {
		v := m[key]
		var err error
		switch key {
		case "content":
			opts.Content, err = content.Value(v)
		case "tts":
			opts.TTS, err = asBool(v)
		case "nonce":
			opts.Nonce, err = decodeNonce(v)
		case "embed":
			opts.Embed, err = decodeNullableEmbed(v)
		case "embeds":
			opts.Embeds, err = decodeList(v, decodeEmbed)
		case "components":
			opts.Components, err = decodeComponents(v)
		case "files":
			opts.Files, err = decodeList(v, decodeFile)
		case "attachments":
			err = convert(v, &opts.Attachments)
		case "allowedMentions":
			opts.AllowedMentions = new(discord.AllowedMentions)
			err = convert(v, opts.AllowedMentions)
		case "reply":
			opts.Reply, err = decodeReply(v)
		case "ephemeral":
			opts.Ephemeral, err = asBool(v)
		case "flags":
			var n int64
			if n, err = asInt(v); err == nil {
				flags := discord.MessageFlags(n)
				opts.Flags = &flags
			}
		case "username":
			opts.Username, err = asString(v)
		case "avatarURL":
			opts.AvatarURL, err = asString(v)
		case "split":
			opts.Split, err = decodeSplit(v)
		case "code":
			opts.Code, err = decodeCode(v)
		default:
			return Options{}, fmt.Errorf("%w %q", ErrUnknownOption, key)
		}
		if err != nil {
			return Options{}, fmt.Errorf("option %q: %w", key, err)
		}
	}
	return opts, nil
}

func decodeNonce(v any) (any, error) {
	if f, ok := v.(float64); ok && f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int64(f), nil
	}
	return checkNonce(v)
}

func decodeNullableEmbed(v any) (discord.Nullable[discord.Embed], error) {
	if v == nil {
		return discord.Null[discord.Embed](), nil
	}
	e, err := decodeEmbed(v)
	if err != nil {
		return discord.Nullable[discord.Embed]{}, err
	}
	return discord.Some(e), nil
}

func decodeEmbed(v any) (discord.Embed, error) {
	m, err := asMap(v)
	if err != nil {
		return discord.Embed{}, err
	}
	var files []attach.File
	if raw, ok := m["files"]; ok {
		if files, err = decodeList(raw, decodeFile); err != nil {
			return discord.Embed{}, fmt.Errorf("files: %w", err)
		}
		m = maps.Clone(m)
		delete(m, "files")
	}
	var e discord.Embed
	if err := convert(m, &e); err != nil {
		return discord.Embed{}, err
	}
	e.Files = files
	return e, nil
}

// decodeComponents accepts a list of components where a nested list stands
// for an action row.
func decodeComponents(v any) ([]discord.Component, error) {
	return decodeList(v, func(v any) (discord.Component, error) {
		if reflect.ValueOf(v).Kind() == reflect.Slice {
			children, err := decodeList(v, decodeComponent)
			if err != nil {
				return discord.Component{}, err
			}
			return discord.ActionRow(children...), nil
		}
		return decodeComponent(v)
	})
}

func decodeComponent(v any) (discord.Component, error) {
	var c discord.Component
	err := convert(v, &c)
	return c, err
}

func decodeFile(v any) (attach.File, error) {
	switch v := v.(type) {
	case string, []byte, io.Reader:
		return attach.From(v), nil
	case map[string]any:
		var f attach.File
		for key, val := range v {
			switch key {
			case "source", "attachment":
				f.Source = val
			case "name":
				name, err := asString(val)
				if err != nil {
					return attach.File{}, err
				}
				f.Name = name
			default:
				return attach.File{}, fmt.Errorf("%w %q in file", ErrUnknownOption, key)
			}
		}
		if f.Source == nil {
			return attach.File{}, fmt.Errorf("%w: file has no source", ErrInvalidOption)
		}
		return f, nil
	}
	return attach.File{}, fmt.Errorf("%w: want a path, URL, bytes or {source, name}, got %T", ErrInvalidOption, v)
}

func decodeReply(v any) (*Reply, error) {
	m, err := asMap(v)
	if err != nil {
		return nil, err
	}
	r := new(Reply)
	for key, val := range m {
		switch key {
		case "messageReference":
			r.MessageReference = val
		case "failIfNotExists":
			b, err := asBool(val)
			if err != nil {
				return nil, err
			}
			r.FailIfNotExists = &b
		default:
			return nil, fmt.Errorf("%w %q in reply", ErrUnknownOption, key)
		}
	}
	return r, nil
}

func decodeSplit(v any) (*content.SplitOptions, error) {
	switch v := v.(type) {
	case nil:
		return nil, nil
	case bool:
		if !v {
			return nil, nil
		}
		return &content.SplitOptions{}, nil
	}
	m, err := asMap(v)
	if err != nil {
		return nil, err
	}
	opts := new(content.SplitOptions)
	for key, val := range m {
		switch key {
		case "maxLength":
			n, err := asInt(val)
			if err != nil {
				return nil, err
			}
			opts.MaxLength = int(n)
		case "char":
			if s, ok := val.(string); ok {
				opts.Char = []string{s}
				break
			}
			if opts.Char, err = decodeList(val, asString); err != nil {
				return nil, err
			}
		case "prepend":
			if opts.Prepend, err = asString(val); err != nil {
				return nil, err
			}
		case "append":
			if opts.Append, err = asString(val); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("%w %q in split", ErrUnknownOption, key)
		}
	}
	return opts, nil
}

func decodeCode(v any) (content.Code, error) {
	switch v := v.(type) {
	case nil:
		return content.Code{}, nil
	case bool:
		return content.Code{Enabled: v}, nil
	case string:
		if v == "" {
			return content.Code{}, nil
		}
		return content.Lang(v), nil
	}
	return content.Code{}, fmt.Errorf("%w: want a boolean or a language, got %T", ErrInvalidOption, v)
}

func decodeList[T any](v any, decode func(any) (T, error)) ([]T, error) {
	if v == nil {
		return nil, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("%w: want a list, got %T", ErrInvalidOption, v)
	}
	out := make([]T, rv.Len())
	for i := range out {
		el, err := decode(rv.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out[i] = el
	}
	return out, nil
}

// convert decodes a generic value into dst through its JSON form.
func convert(v, dst any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOption, err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOption, err)
	}
	return nil
}

func asMap(v any) (map[string]any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: want a mapping, got %T", ErrInvalidOption, v)
	}
	return m, nil
}

func asBool(v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%w: want a boolean, got %T", ErrInvalidOption, v)
	}
	return b, nil
}

func asString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: want a string, got %T", ErrInvalidOption, v)
	}
	return s, nil
}

func asInt(v any) (int64, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		if f := rv.Float(); f == math.Trunc(f) {
			return int64(f), nil
		}
	}
	return 0, fmt.Errorf("%w: want an integer, got %v", ErrInvalidOption, v)
}
