package command

import (
	"errors"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/nesirat/MCP/internal/cli/shell"
	"github.com/nesirat/MCP/internal/core/domain"
	"github.com/nesirat/MCP/internal/credstore"
)

// ShellCommand returns the interactive shell command.
func ShellCommand() *cli.Command {
	return &cli.Command{
		Name:    "shell",
		Aliases: []string{"sh"},
		Usage:   "Start an interactive session",
		Action:  runShell,
	}
}

func runShell(c *cli.Context) error {
	rt := getRuntime(c)

	// Pick up a persisted session, if any. Anonymous is fine.
	ctx, cancel := rt.requestContext()
	if _, err := rt.flow.Resume(ctx); err != nil && !errors.Is(err, domain.ErrUnauthenticated) {
		fmt.Fprintf(rt.errOut, "warning: could not resume session: %v\n", err)
	}
	cancel()

	// Another client instance logging in or out shows up as a change to
	// the shared credentials file.
	watcher, err := credstore.NewWatcher(rt.fileBkd)
	if err == nil {
		watcher.OnChange(rt.syncFromStore)
		watcher.StartAsync()
		defer watcher.Stop()
	} else {
		fmt.Fprintf(rt.errOut, "warning: credential watching disabled: %v\n", err)
	}

	prompt := func() string {
		if rt.session.Active() {
			return "mcp*> "
		}
		return "mcp> "
	}

	execute := func(args []string) error {
		if len(args) > 0 && (args[0] == "shell" || args[0] == "sh") {
			return fmt.Errorf("already in interactive mode")
		}
		return c.App.Run(append([]string{c.App.Name}, args...))
	}

	s := shell.New(prompt, execute,
		shell.WithIO(rt.in, rt.out),
		shell.WithActivity(rt.monitor.Activity))

	fmt.Fprintf(rt.out, "mcp-cli %s interactive mode. Type 'help' for commands, 'exit' to leave.\n", Version)
	return s.Run()
}

// syncFromStore reconciles the in-process session with the durable
// credentials file after an external change.
func (r *runtime) syncFromStore() {
	token, durable := r.store.Load()

	switch {
	case token == "" && r.session.Active() && r.session.Durable():
		// Durable logout elsewhere ends this session too.
		r.monitor.Deactivate()
		r.view.Reset()
		r.notice("Session ended by another client instance.")

	case token != "" && token != r.session.Token() && durable:
		r.session.Begin(token, true)
		r.monitor.Activate(true)
		r.notice("Session updated by another client instance.")

	default:
		// Volatile sessions are per-process; nothing to reconcile.
	}
}
