// © 2025 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package interpreter_test

import (
	"context"
	"fmt"
	"log"

	"go.astrophena.name/courier/internal/starlark/interpreter"
)

func ExampleInterpreter() {
	files := map[string]string{
		"greeting.star": `greeting = "Hello"`,
		"hello.star": `
load("greeting.star", "greeting")
print(greeting + ", world!")
`,
	}

	intr := &interpreter.Interpreter{
		Loader: interpreter.MemoryLoader(files),
		Logger: func(_ string, _ int, message string) {
			fmt.Printf("%s\n", message)
		},
	}
	if _, err := intr.ExecModule(context.Background(), "hello.star"); err != nil {
		log.Fatal(err)
	}

	// Output: Hello, world!
}
