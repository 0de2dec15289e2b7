// Package output provides output formatting for mcp-cli.
package output
