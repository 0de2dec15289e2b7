// Package main provides the entry point for mcp-cli.
//
// mcp-cli is the command-line client for an MCP server, managing
// accounts, sessions, and API keys in both single-command mode and
// interactive shell mode.
package main

import (
	"fmt"
	"os"

	"github.com/nesirat/MCP/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
