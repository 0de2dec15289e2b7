package shell

import (
	"bufio"
	"os"
	"path/filepath"
)

// History manages command history for the shell.
type History struct {
	entries []string
	maxSize int
	file    string
}

// NewHistory creates a History persisted under the MCP home directory.
func NewHistory() *History {
	homeDir, _ := os.UserHomeDir()
	return NewHistoryAt(filepath.Join(homeDir, ".mcp", "history"))
}

// NewHistoryAt creates a History persisted at the given path.
func NewHistoryAt(path string) *History {
	return &History{
		entries: make([]string, 0),
		maxSize: 1000,
		file:    path,
	}
}

// Add adds a command to history.
func (h *History) Add(cmd string) {
	h.entries = append(h.entries, cmd)
	if len(h.entries) > h.maxSize {
		h.entries = h.entries[1:]
	}
}

// Get returns the history entry at index (0 = most recent).
func (h *History) Get(index int) string {
	if index < 0 || index >= len(h.entries) {
		return ""
	}
	return h.entries[len(h.entries)-1-index]
}

// Len returns the number of stored entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Load loads history from file. A missing file is not an error.
func (h *History) Load() error {
	file, err := os.Open(h.file)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		h.entries = append(h.entries, scanner.Text())
	}
	return scanner.Err()
}

// Save saves history to file.
func (h *History) Save() error {
	if err := os.MkdirAll(filepath.Dir(h.file), 0700); err != nil {
		return err
	}

	file, err := os.Create(h.file)
	if err != nil {
		return err
	}
	defer file.Close()

	for _, entry := range h.entries {
		if _, err := file.WriteString(entry + "\n"); err != nil {
			return err
		}
	}
	return nil
}
