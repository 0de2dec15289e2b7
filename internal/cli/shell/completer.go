package shell

import "strings"

// Completer provides command completion for the shell.
type Completer struct {
	commands []string
}

// NewCompleter creates a Completer over the mcp-cli command set.
func NewCompleter() *Completer {
	return &Completer{
		commands: []string{
			"login", "logout", "register", "whoami",
			"key", "key list", "key create", "key revoke", "key delete",
			"config", "config show", "config path",
			"help", "exit", "quit",
		},
	}
}

// Complete returns completion suggestions for the given prefix.
func (c *Completer) Complete(prefix string) []string {
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}

// Commands returns the full command list.
func (c *Completer) Commands() []string {
	return c.commands
}
