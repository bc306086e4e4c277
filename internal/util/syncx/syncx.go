// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package syncx contains useful synchronization primitives.
package syncx

import (
	"sync"
	"sync/atomic"
)

// Lazy represents a lazily computed value. The zero value is ready to use.
//
// Once computed, the value (and error, if any) never changes, so concurrent
// readers observe the same result.
type Lazy[T any] struct {
	once sync.Once
	done atomic.Bool
	val  T
	err  error
}

// Get returns T, calling f to compute it, if necessary.
func (l *Lazy[T]) Get(f func() T) T {
	l.once.Do(func() {
		l.val = f()
		l.done.Store(true)
	})
	return l.val
}

// GetErr returns T and an error, calling f to compute them, if necessary.
func (l *Lazy[T]) GetErr(f func() (T, error)) (T, error) {
	l.once.Do(func() {
		l.val, l.err = f()
		l.done.Store(true)
	})
	return l.val, l.err
}

// Fill stores val as the computed value unless one was already computed. It
// reports whether val was stored.
func (l *Lazy[T]) Fill(val T) bool {
	var filled bool
	l.once.Do(func() {
		l.val = val
		l.done.Store(true)
		filled = true
	})
	return filled
}

// Done reports whether the value has been computed.
func (l *Lazy[T]) Done() bool { return l.done.Load() }
