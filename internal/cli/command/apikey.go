package command

import (
	"fmt"
	"strconv"

	"github.com/urfave/cli/v2"

	"github.com/nesirat/MCP/internal/cli/output"
	"github.com/nesirat/MCP/internal/core/domain"
)

// KeyCommand returns the key subcommand group.
func KeyCommand() *cli.Command {
	return &cli.Command{
		Name:    "key",
		Aliases: []string{"apikey"},
		Usage:   "Manage API keys",
		Subcommands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List API keys",
				Action: keyList,
			},
			{
				Name:  "create",
				Usage: "Create a new API key",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Usage:    "Key name",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "description",
						Aliases: []string{"d"},
						Usage:   "Key description",
					},
				},
				Action: keyCreate,
			},
			{
				Name:      "revoke",
				Usage:     "Deactivate an API key (irreversible)",
				ArgsUsage: "KEY_ID",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Skip confirmation",
					},
				},
				Action: keyRevoke,
			},
			{
				Name:      "delete",
				Usage:     "Delete an API key permanently",
				ArgsUsage: "KEY_ID",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "force",
						Aliases: []string{"f"},
						Usage:   "Skip confirmation",
					},
				},
				Action: keyDelete,
			},
		},
	}
}

func keyList(c *cli.Context) error {
	rt := getRuntime(c)

	ctx, cancel := rt.requestContext()
	defer cancel()

	if err := rt.ensureSession(ctx); err != nil {
		return err
	}

	var keys []domain.APIKey
	err := rt.withSpinner("Fetching API keys...", func() error {
		var err error
		keys, err = rt.keys.List(ctx)
		return err
	})
	if err != nil {
		return err
	}

	switch output.Format(rt.cfg.Output) {
	case output.FormatJSON, output.FormatYAML:
		return rt.formatter().Format(rt.out, keys)
	default:
		table := &output.Table{
			Headers: []string{"ID", "NAME", "DESCRIPTION", "KEY", "STATUS", "CREATED"},
		}
		for _, key := range keys {
			table.AddRow(
				strconv.FormatInt(key.ID, 10),
				key.Name,
				key.Description,
				domain.MaskKey(key.Key),
				key.Status(),
				key.CreatedAt.Format("2006-01-02 15:04"),
			)
		}
		if err := table.Render(rt.out); err != nil {
			return err
		}
		fmt.Fprintf(rt.out, "\nTotal: %d keys\n", len(keys))
		return nil
	}
}

func keyCreate(c *cli.Context) error {
	rt := getRuntime(c)

	ctx, cancel := rt.requestContext()
	defer cancel()

	if err := rt.ensureSession(ctx); err != nil {
		return err
	}

	var key *domain.APIKey
	err := rt.withSpinner("Creating API key...", func() error {
		var err error
		key, err = rt.keys.Create(ctx, c.String("name"), c.String("description"))
		return err
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(rt.out, "API key created successfully:\n")
	fmt.Fprintf(rt.out, "  ID:   %d\n", key.ID)
	fmt.Fprintf(rt.out, "  Name: %s\n", key.Name)
	fmt.Fprintf(rt.out, "  Key:  %s\n", key.Key)
	fmt.Fprintf(rt.out, "\n⚠️  IMPORTANT: Save this key now - it cannot be retrieved later!\n")
	return nil
}

func keyRevoke(c *cli.Context) error {
	rt := getRuntime(c)

	id, err := keyID(c)
	if err != nil {
		return err
	}

	ctx, cancel := rt.requestContext()
	defer cancel()

	if err := rt.ensureSession(ctx); err != nil {
		return err
	}

	rt.assumeYes = c.Bool("force")
	defer func() { rt.assumeYes = false }()

	var done bool
	run := func() error {
		var err error
		done, err = rt.keys.Revoke(ctx, id)
		return err
	}
	// The confirmation prompt lives inside the operation; only spin
	// when --force skips it.
	if rt.assumeYes {
		err = rt.withSpinner("Revoking API key...", run)
	} else {
		err = run()
	}
	if err != nil {
		return err
	}
	if !done {
		fmt.Fprintln(rt.out, "Cancelled.")
		return nil
	}

	fmt.Fprintf(rt.out, "API key %d revoked.\n", id)
	return nil
}

func keyDelete(c *cli.Context) error {
	rt := getRuntime(c)

	id, err := keyID(c)
	if err != nil {
		return err
	}

	ctx, cancel := rt.requestContext()
	defer cancel()

	if err := rt.ensureSession(ctx); err != nil {
		return err
	}

	rt.assumeYes = c.Bool("force")
	defer func() { rt.assumeYes = false }()

	var done bool
	run := func() error {
		var err error
		done, err = rt.keys.Delete(ctx, id)
		return err
	}
	if rt.assumeYes {
		err = rt.withSpinner("Deleting API key...", run)
	} else {
		err = run()
	}
	if err != nil {
		return err
	}
	if !done {
		fmt.Fprintln(rt.out, "Cancelled.")
		return nil
	}

	fmt.Fprintf(rt.out, "API key %d deleted.\n", id)
	return nil
}

func keyID(c *cli.Context) (int64, error) {
	arg := c.Args().First()
	if arg == "" {
		return 0, fmt.Errorf("key ID required")
	}
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid key ID %q", arg)
	}
	return id, nil
}
