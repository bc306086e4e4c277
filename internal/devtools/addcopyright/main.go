// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Addcopyright adds copyright header to each Go and Starlark file.
//
// With -check, it only lists the files missing a header and fails if there
// are any.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
)

var templates = map[string]string{
	".go": `// © %d Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

`,
	".star": `# © %d Ilya Mateyko. All rights reserved.
# Use of this source code is governed by the ISC
# license that can be found in the LICENSE.md file.

`,
}

var headers = map[string]string{
	".go":   `// ©`,
	".star": `# ©`,
}

func main() {
	log.SetFlags(0)
	check := flag.Bool("check", false, "Only list files without a header.")
	flag.Parse()

	if _, err := os.Stat("go.mod"); err != nil {
		log.Fatal("must be run from the repository root")
	}

	missing, err := walk(".")
	if err != nil {
		log.Fatal(err)
	}
	if *check {
		for _, m := range missing {
			fmt.Println(m.path)
		}
		if len(missing) > 0 {
			os.Exit(1)
		}
		return
	}
	for _, m := range missing {
		if err := m.fix(); err != nil {
			log.Fatal(err)
		}
	}
}

type file struct {
	path string
	ext  string
	year int
}

func (f file) fix() error {
	content, err := os.ReadFile(f.path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	fmt.Fprintf(&buf, templates[f.ext], f.year)
	buf.Write(content)
	return os.WriteFile(f.path, buf.Bytes(), 0o644)
}

// walk returns the source files under root that lack a copyright header.
// Directories starting with a dot or an underscore and testdata directories
// are skipped, like the go tool does.
func walk(root string) ([]file, error) {
	var missing []file
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "testdata") {
				return filepath.SkipDir
			}
			return nil
		}
		ext := filepath.Ext(path)
		header, ok := headers[ext]
		if !ok {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if bytes.HasPrefix(content, []byte(header)) {
			return nil // Already has a copyright header
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		missing = append(missing, file{path: path, ext: ext, year: info.ModTime().Year()})
		return nil
	})
	return missing, err
}
