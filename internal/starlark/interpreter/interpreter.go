// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package interpreter executes Starlark modules that load other modules.
//
// Every module is executed at most once; a module loaded several times
// shares its globals. Load paths are relative to the root of the loader,
// whichever module loads them.
package interpreter

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Interpreter executes Starlark modules. It is not safe for concurrent use.
type Interpreter struct {
	// Predeclared are the names visible to every module.
	Predeclared starlark.StringDict
	// Loader loads module sources.
	Loader Loader
	// Logger receives the output of print. If nil, print output is dropped.
	Logger func(file string, line int, message string)

	modules map[string]*module
}

type module struct {
	globals starlark.StringDict
	err     error
	done    bool
}

// ExecModule executes the module at path and returns its globals. Modules
// already executed are not executed again.
func (intr *Interpreter) ExecModule(ctx context.Context, path string) (starlark.StringDict, error) {
	thread := intr.thread(ctx)
	stop := context.AfterFunc(ctx, func() { thread.Cancel(context.Cause(ctx).Error()) })
	defer stop()
	return intr.exec(thread, path)
}

func (intr *Interpreter) thread(ctx context.Context) *starlark.Thread {
	thread := &starlark.Thread{
		Name: "exec",
		Load: func(thread *starlark.Thread, module string) (starlark.StringDict, error) {
			return intr.exec(thread, module)
		},
		Print: func(thread *starlark.Thread, msg string) {
			if intr.Logger == nil {
				return
			}
			pos := thread.CallFrame(1).Pos
			intr.Logger(pos.Filename(), int(pos.Line), msg)
		},
	}
	thread.SetLocal("context", ctx)
	return thread
}

func (intr *Interpreter) exec(thread *starlark.Thread, p string) (starlark.StringDict, error) {
	p, err := clean(p)
	if err != nil {
		return nil, err
	}

	if intr.modules == nil {
		intr.modules = make(map[string]*module)
	}
	if m, ok := intr.modules[p]; ok {
		if !m.done {
			return nil, fmt.Errorf("cycle in the load graph at %q", p)
		}
		return m.globals, m.err
	}

	m := &module{}
	intr.modules[p] = m
	defer func() { m.done = true }()

	if intr.Loader == nil {
		m.err = fmt.Errorf("%w: %q", ErrNoModule, p)
		return nil, m.err
	}
	src, err := intr.Loader(p)
	if err != nil {
		if errors.Is(err, ErrNoModule) {
			err = fmt.Errorf("%w: %q", ErrNoModule, p)
		}
		m.err = err
		return nil, err
	}

	m.globals, m.err = starlark.ExecFileOptions(&syntax.FileOptions{}, thread, p, src, intr.Predeclared)
	if m.err == nil {
		m.globals.Freeze()
	}
	return m.globals, m.err
}

func clean(p string) (string, error) {
	c := path.Clean(strings.TrimPrefix(p, "//"))
	if path.IsAbs(c) || c == ".." || strings.HasPrefix(c, "../") {
		return "", fmt.Errorf("module path %q is outside the root", p)
	}
	return c, nil
}

// Context returns the context of the execution thread runs, or
// context.Background if it has none.
func Context(thread *starlark.Thread) context.Context {
	if ctx, ok := thread.Local("context").(context.Context); ok {
		return ctx
	}
	return context.Background()
}
