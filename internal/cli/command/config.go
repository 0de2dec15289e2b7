package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/nesirat/MCP/internal/cli/config"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Inspect the CLI configuration",
		Subcommands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Show the effective configuration",
				Action: func(c *cli.Context) error {
					rt := getRuntime(c)
					return rt.formatter().Format(rt.out, rt.cfg)
				},
			},
			{
				Name:  "path",
				Usage: "Show the config file path",
				Action: func(c *cli.Context) error {
					rt := getRuntime(c)
					path := rt.configPath
					if path == "" {
						path = config.DefaultPath()
					}
					fmt.Fprintln(rt.out, path)
					return nil
				},
			},
		},
	}
}
