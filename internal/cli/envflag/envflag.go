// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package envflag registers flags on a [flag.FlagSet] that environment
// variables can override.
//
// Values are taken, from highest to lowest priority, from the command line,
// the environment, values layered with [Set.Layer] (a dotenv file, for
// example) and the flag default.
package envflag

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"
)

// Type is a constraint that permits only types supported by envflag package.
type Type interface {
	int | int64 | float64 | bool | string
}

// Set registers flags backed by environment variables.
type Set struct {
	fs     *flag.FlagSet
	getenv func(string) string
	prefix string
	names  map[string]string // flag name -> environment variable
	errs   []error
}

// New returns a Set that registers flags on fs. The environment variable of
// a flag is prefix followed by the flag name in upper case, with dashes
// replaced by underscores.
func New(fs *flag.FlagSet, getenv func(string) string, prefix string) *Set {
	return &Set{
		fs:     fs,
		getenv: getenv,
		prefix: prefix,
		names:  make(map[string]string),
	}
}

// EnvName returns the environment variable that overrides the named flag.
func (s *Set) EnvName(name string) string {
	return s.prefix + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

// Value sets up a flag with the given name, default value, and usage
// information.
//
// If the flag's environment variable is set, it overrides the default. A
// value that does not parse is reported by [Set.Err].
func Value[T Type](s *Set, name string, value T, usage string) *T {
	envName := s.EnvName(name)
	s.names[name] = envName

	result := new(T)
	*result = value
	fv := &flagValue[T]{value: result}
	if env := s.getenv(envName); env != "" {
		if err := fv.Set(env); err != nil {
			s.errs = append(s.errs, fmt.Errorf("%s: %w", envName, err))
		}
	}

	s.fs.Var(fv, name, usage+" Can be overridden by "+envName+" environment variable.")
	return result
}

// Err returns the errors of environment variables that failed to parse.
func (s *Set) Err() error { return errors.Join(s.errs...) }

// Layer sets flags from vals, keyed by environment variable name, unless the
// flag was given on the command line or its variable is set in the
// environment. It must be called after the flag set is parsed.
func (s *Set) Layer(vals map[string]string) error {
	given := make(map[string]bool)
	s.fs.Visit(func(f *flag.Flag) { given[f.Name] = true })

	var errs []error
	for name, envName := range s.names {
		v, ok := vals[envName]
		if !ok || given[name] || s.getenv(envName) != "" {
			continue
		}
		if err := s.fs.Set(name, v); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", envName, err))
		}
	}
	return errors.Join(errs...)
}

type flagValue[T Type] struct {
	value *T
}

func (f *flagValue[T]) String() string {
	if f.value == nil {
		return ""
	}
	switch v := any(*f.value).(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case string:
		return v
	}
	return ""
}

func (f *flagValue[T]) Set(s string) error {
	var (
		v   any
		err error
	)
	switch any(*f.value).(type) {
	case int:
		v, err = strconv.Atoi(s)
	case int64:
		v, err = strconv.ParseInt(s, 10, 64)
	case float64:
		v, err = strconv.ParseFloat(s, 64)
	case bool:
		v, err = strconv.ParseBool(s)
	case string:
		v = s
	}
	if err != nil {
		return err
	}
	*f.value = v.(T)
	return nil
}

// IsBoolFlag allows boolean flags to be given without a value.
func (f *flagValue[T]) IsBoolFlag() bool {
	_, ok := any(*f.value).(bool)
	return ok
}
