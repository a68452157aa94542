// Barrelle is a TypeScript barrel file generator.
package main

import (
	"github.com/albertocavalcante/barrelle/cmd/barrelle/internal/cli"
)

func main() {
	cli.Execute()
}
