// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package interpreter

import (
	"errors"
	"io/fs"
)

// ErrNoModule is returned by loaders when they can't find a module.
var ErrNoModule = errors.New("no such module")

// Loader returns the source of the module at path. Paths are slash-separated
// and relative to the root of the loader.
type Loader func(path string) (src string, err error)

// FSLoader returns a loader that loads files from a fs.FS implementation.
func FSLoader(fsys fs.FS) Loader {
	return func(path string) (string, error) {
		switch body, err := fs.ReadFile(fsys, path); {
		case errors.Is(err, fs.ErrNotExist):
			return "", ErrNoModule
		case err != nil:
			return "", err
		default:
			return string(body), nil
		}
	}
}

// MemoryLoader returns a loader that loads files from the given map.
func MemoryLoader(files map[string]string) Loader {
	return func(path string) (string, error) {
		body, ok := files[path]
		if !ok {
			return "", ErrNoModule
		}
		return body, nil
	}
}
