// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package target

import (
	"reflect"
	"strconv"
)

// Messages resolves message references to message identifiers.
type Messages interface {
	// ResolveID returns the identifier of the message ref refers to. ref may
	// be a message, an identifier or anything else the collection
	// understands.
	ResolveID(ref any) (id string, ok bool)
}

// Identified is implemented by message values.
type Identified interface {
	MessageID() string
}

// MessagesFunc is an adapter to allow the use of ordinary functions as
// [Messages].
type MessagesFunc func(ref any) (string, bool)

// ResolveID calls f(ref).
func (f MessagesFunc) ResolveID(ref any) (string, bool) { return f(ref) }

// MessageSet is a collection of known message identifiers.
//
// Messages resolve to their own identifier. Identifiers, given as strings or
// integers, resolve only when they are in the set.
type MessageSet map[string]struct{}

// NewMessageSet returns a MessageSet holding ids.
func NewMessageSet(ids ...string) MessageSet {
	s := make(MessageSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add adds id to s.
func (s MessageSet) Add(id string) { s[id] = struct{}{} }

// Has reports whether id is in s.
func (s MessageSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// ResolveID implements [Messages].
func (s MessageSet) ResolveID(ref any) (string, bool) {
	if m, ok := ref.(Identified); ok {
		id := m.MessageID()
		return id, id != ""
	}
	id, ok := idString(ref)
	if !ok || !s.Has(id) {
		return "", false
	}
	return id, true
}

func idString(ref any) (string, bool) {
	if s, ok := ref.(string); ok {
		return s, s != ""
	}
	v := reflect.ValueOf(ref)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), true
	}
	return "", false
}
