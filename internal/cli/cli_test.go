// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package cli_test

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"testing"

	"go.astrophena.name/courier/internal/cli"
	"go.astrophena.name/courier/internal/cli/clitest"
	"go.astrophena.name/courier/internal/testutil"
)

type greeter struct {
	name string
}

func (g *greeter) Flags(fs *flag.FlagSet, getenv func(string) string) {
	fs.StringVar(&g.name, "name", getenv("NAME"), "Who to greet.")
}

func (g *greeter) Run(ctx context.Context, env *cli.Env) error {
	if len(env.Args) > 0 {
		return fmt.Errorf("%w: no arguments expected", cli.ErrInvalidArgs)
	}
	if g.name == "" {
		env.Logf("nobody to greet")
		return nil
	}
	fmt.Fprintf(env.Stdout, "hello, %s\n", g.name)
	return nil
}

func TestRun(t *testing.T) {
	clitest.Run(t, func(*testing.T) *greeter { return new(greeter) }, map[string]clitest.Case[*greeter]{
		"flag": {
			Args:       []string{"-name", "courier"},
			WantStdout: "hello, courier\n",
		},
		"environment": {
			Env:        map[string]string{"NAME": "env"},
			WantStdout: "hello, env\n",
		},
		"logs to stderr": {
			WantInStderr: "nobody to greet",
		},
		"extra arguments": {
			Args:    []string{"x"},
			WantErr: cli.ErrInvalidArgs,
		},
		"version": {
			Args:    []string{"-version"},
			WantErr: cli.ErrExitVersion,
		},
		"unknown flag": {
			Args:         []string{"-nope"},
			WantErrText:  "flag provided but not defined",
			WantInStderr: "Available flags:",
		},
	})
}

func TestAppFunc(t *testing.T) {
	t.Parallel()
	var got []string
	app := cli.AppFunc(func(_ context.Context, env *cli.Env) error {
		got = env.Args
		return nil
	})
	env := &cli.Env{Args: []string{"a", "b"}, Stdout: new(strings.Builder), Stderr: new(strings.Builder)}
	if err := cli.Run(t.Context(), app, env); err != nil {
		t.Fatal(err)
	}
	testutil.AssertEqual(t, got, []string{"a", "b"})
}

func TestVersionIsPrinted(t *testing.T) {
	t.Parallel()
	var buf strings.Builder
	env := &cli.Env{Args: []string{"-version"}, Stdout: &buf, Stderr: &buf}
	err := cli.Run(t.Context(), cli.AppFunc(func(context.Context, *cli.Env) error { return nil }), env)
	if !errors.Is(err, cli.ErrExitVersion) {
		t.Fatalf("got %v, want ErrExitVersion", err)
	}
	if buf.Len() == 0 {
		t.Fatal("version must be printed")
	}
}

func TestHelpPrintsDocComment(t *testing.T) {
	cli.SetDocComment([]byte("// header\n\n/*\nGreeter says hello.\n\n# Usage\n\n\t$ greeter -name x\n*/\npackage main\n"))

	var stderr strings.Builder
	env := &cli.Env{Args: []string{"-help"}, Stdout: new(strings.Builder), Stderr: &stderr}
	err := cli.Run(t.Context(), new(greeter), env)
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("got %v, want flag.ErrHelp", err)
	}

	got := stderr.String()
	for _, want := range []string{"Greeter says hello.", "$ greeter -name x", "Available flags:", "-name"} {
		if !strings.Contains(got, want) {
			t.Errorf("help text does not contain %q:\n%s", want, got)
		}
	}
	for _, unwanted := range []string{"header", "package main", "/*"} {
		if strings.Contains(got, unwanted) {
			t.Errorf("help text contains %q:\n%s", unwanted, got)
		}
	}
}
