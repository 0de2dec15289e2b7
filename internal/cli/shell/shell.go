package shell

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Executor runs one parsed command line.
type Executor func(args []string) error

// PromptFunc returns the current prompt, reflecting auth state.
type PromptFunc func() string

// Shell is the interactive read-eval-print loop.
type Shell struct {
	input      io.Reader
	output     io.Writer
	history    *History
	completer  *Completer
	prompt     PromptFunc
	execute    Executor
	onActivity func()
}

// Option configures a Shell.
type Option func(*Shell)

// WithIO replaces the input and output streams (used in tests).
func WithIO(in io.Reader, out io.Writer) Option {
	return func(s *Shell) {
		s.input = in
		s.output = out
	}
}

// WithActivity registers a hook invoked for every line the user enters.
func WithActivity(hook func()) Option {
	return func(s *Shell) {
		s.onActivity = hook
	}
}

// WithHistory replaces the history store (used in tests).
func WithHistory(h *History) Option {
	return func(s *Shell) {
		s.history = h
	}
}

// New creates a shell that dispatches lines to execute and renders the
// prompt via prompt.
func New(prompt PromptFunc, execute Executor, opts ...Option) *Shell {
	s := &Shell{
		input:     os.Stdin,
		output:    os.Stdout,
		history:   NewHistory(),
		completer: NewCompleter(),
		prompt:    prompt,
		execute:   execute,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Output returns the shell's output stream, for notices that must
// interleave with the prompt.
func (s *Shell) Output() io.Writer {
	return s.output
}

// Run starts the loop. It returns on EOF or an explicit exit command.
func (s *Shell) Run() error {
	if err := s.history.Load(); err != nil {
		fmt.Fprintf(s.output, "warning: could not load history: %v\n", err)
	}
	defer s.history.Save()

	// Reuse the caller's buffer if the input is already buffered;
	// stacking a second bufio.Reader would steal bytes that command
	// prompts still need to read.
	reader, ok := s.input.(*bufio.Reader)
	if !ok {
		reader = bufio.NewReader(s.input)
	}
	for {
		fmt.Fprint(s.output, s.prompt())

		line, err := reader.ReadString('\n')
		if err == io.EOF {
			fmt.Fprintln(s.output)
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if s.onActivity != nil {
			s.onActivity()
		}
		s.history.Add(line)

		switch line {
		case "exit", "quit":
			return nil
		case "help":
			s.printHelp()
			continue
		}

		if err := s.execute(strings.Fields(line)); err != nil {
			fmt.Fprintf(s.output, "Error: %v\n", err)
		}
	}
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.output, "Commands:")
	for _, cmd := range s.completer.Commands() {
		fmt.Fprintf(s.output, "  %s\n", cmd)
	}
}
