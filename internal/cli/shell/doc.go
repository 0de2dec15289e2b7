// Package shell provides the interactive mode for mcp-cli. Every line
// the user enters counts as an activity signal for the session
// inactivity monitor.
package shell
