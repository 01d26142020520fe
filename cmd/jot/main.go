// Command jot is the CLI entry point for the Jot toolchain.
//
// Usage:
//
//	jot tokens <file> [--json]          Print tokens
//	jot parse  <file> [--format yaml]   Print the AST as JSON or YAML
//	jot run    <file> [--watch]         Run a source file
//	jot repl                            Start interactive REPL
//	jot version                         Print version information
package main

import (
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
