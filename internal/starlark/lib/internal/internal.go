// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package internal holds helpers shared by the Starlark modules.
package internal

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"strings"
)

// ErrNoDocComment is returned by ParseDocComment when src has no complete
// /* ... */ block.
var ErrNoDocComment = errors.New("no doc comment")

// ParseDocComment returns the body of the first /* ... */ block in src,
// which is expected to be a Go file. The line naming the package is dropped,
// so the result reads as module documentation rather than Go package docs.
func ParseDocComment(src []byte) (string, error) {
	var (
		sb     strings.Builder
		opened bool
		closed bool
	)
	s := bufio.NewScanner(bytes.NewReader(src))
	for s.Scan() {
		line := s.Text()
		if !opened {
			opened = line == "/*"
			continue
		}
		if line == "*/" {
			closed = true
			break
		}
		if strings.HasPrefix(line, "Package ") {
			continue
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	if err := s.Err(); err != nil {
		return "", fmt.Errorf("reading doc comment: %w", err)
	}
	if !closed {
		return "", ErrNoDocComment
	}
	return sb.String(), nil
}
