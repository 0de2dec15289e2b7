// Package command provides CLI command definitions for mcp-cli.
//
// It uses urfave/cli/v2 for command parsing and supports both
// single-command mode and an interactive shell.
package command

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/nesirat/MCP/internal/cli/config"
	"github.com/nesirat/MCP/internal/cli/output"
	"github.com/nesirat/MCP/internal/client"
	"github.com/nesirat/MCP/internal/core/domain"
	"github.com/nesirat/MCP/internal/core/service"
	"github.com/nesirat/MCP/internal/credstore"
	"github.com/nesirat/MCP/internal/telemetry/logger"
)

// Build information, set via ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// App creates the CLI application.
func App() *cli.App {
	app := &cli.App{
		Name:    "mcp-cli",
		Usage:   "MCP account and API key management tool",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			LoginCommand(),
			LogoutCommand(),
			RegisterCommand(),
			WhoamiCommand(),
			KeyCommand(),
			ConfigCommand(),
			ShellCommand(),
		},
		Before: func(c *cli.Context) error {
			// The shell re-enters Run on the same app; the runtime and
			// its session state must survive that.
			if _, ok := c.App.Metadata["runtime"]; ok {
				return nil
			}
			rt, err := newRuntime(c)
			if err != nil {
				return err
			}
			c.App.Metadata["runtime"] = rt
			return nil
		},
	}

	return app
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "server",
			Aliases: []string{"s"},
			Usage:   "MCP server address (e.g., https://mcp.example.com)",
			EnvVars: []string{"MCP_SERVER"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, json, yaml",
		},
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the CLI config file",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable verbose output",
		},
	}
}

// runtime holds the wired client stack shared by all commands within
// one invocation (or one interactive shell).
type runtime struct {
	cfg        *config.CLIConfig
	configPath string

	session *domain.Session
	store   *credstore.Store
	fileBkd *credstore.FileBackend
	client  *client.Client
	monitor *service.Monitor
	view    *service.KeyListView
	keys    *service.KeyService
	flow    *service.AuthFlow

	// in is the single buffered reader over the input stream. Prompts
	// and the interactive shell must share one buffer; a second reader
	// on the same stream would swallow typed-ahead bytes.
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer

	// assumeYes bypasses confirmation prompts (--force).
	assumeYes bool
}

func newRuntime(c *cli.Context) (*runtime, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("server") {
		cfg.Server = c.String("server")
	}
	if c.IsSet("output") {
		cfg.Output = c.String("output")
	}

	if !output.Format(cfg.Output).Valid() {
		return nil, fmt.Errorf("invalid output format %q (table, json, yaml)", cfg.Output)
	}

	if c.Bool("verbose") {
		logger.SetLevel("debug")
	} else {
		logger.SetLevel(cfg.LogLevel)
	}

	return buildRuntime(cfg, c.String("config")), nil
}

// buildRuntime wires the client stack for the given configuration.
func buildRuntime(cfg *config.CLIConfig, configPath string) *runtime {
	rt := &runtime{
		cfg:        cfg,
		configPath: configPath,
		session:    domain.NewSession(),
		fileBkd:    credstore.NewFileBackend(credstore.DefaultDir()),
		view:       service.NewKeyListView(),
		in:         bufio.NewReader(os.Stdin),
		out:        os.Stdout,
		errOut:     os.Stderr,
	}
	rt.store = credstore.New(rt.fileBkd, credstore.NewMemoryBackend())
	rt.client = client.New(cfg.Server, rt.session.Token, client.WithTimeout(cfg.Timeout))
	rt.monitor = service.NewMonitor(rt.session, service.WithIdleWindow(cfg.IdleWindow))
	rt.keys = service.NewKeyService(rt.client, rt.session, rt.view, rt.monitor, rt.confirm)
	rt.flow = service.NewAuthFlow(rt.client, rt.store, rt.session, rt.monitor, rt.keys, rt.notice)
	return rt
}

// getRuntime retrieves the runtime from the app metadata.
func getRuntime(c *cli.Context) *runtime {
	rt, _ := c.App.Metadata["runtime"].(*runtime)
	return rt
}

// requestContext returns a context bounded by the configured timeout.
func (r *runtime) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.cfg.Timeout)
}

// ensureSession restores a persisted session if none is active yet.
func (r *runtime) ensureSession(ctx context.Context) error {
	if r.session.Active() {
		return nil
	}
	ok, err := r.flow.Resume(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrUnauthenticated
	}
	return nil
}

// confirm asks a yes/no question on the runtime's streams.
func (r *runtime) confirm(prompt string) bool {
	if r.assumeYes {
		return true
	}
	fmt.Fprintf(r.out, "%s [y/N]: ", prompt)
	answer, _ := r.in.ReadString('\n')
	answer = strings.TrimSpace(answer)
	return answer == "y" || answer == "Y"
}

// notice surfaces session expiry messages.
func (r *runtime) notice(message string) {
	fmt.Fprintf(r.out, "\n%s\n", message)
}

// formatter returns the formatter for the configured output format.
func (r *runtime) formatter() output.Formatter {
	return output.NewFormatter(output.Format(r.cfg.Output))
}

// withSpinner runs fn with a progress spinner while the request is in
// flight. The spinner only animates on an interactive terminal in
// table mode; JSON/YAML output and pipes stay clean.
func (r *runtime) withSpinner(message string, fn func() error) error {
	if !r.spinnerVisible() {
		return fn()
	}
	sp := output.NewSpinner(r.out, message)
	sp.Start()
	err := fn()
	sp.Stop()
	return err
}

func (r *runtime) spinnerVisible() bool {
	if output.Format(r.cfg.Output) != output.FormatTable {
		return false
	}
	f, ok := r.out.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}

// readLine prompts for a single line of input.
func (r *runtime) readLine(prompt string) string {
	fmt.Fprint(r.out, prompt)
	line, _ := r.in.ReadString('\n')
	return strings.TrimSpace(line)
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
