package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/nesirat/MCP/internal/client"
)

// LoginCommand returns the login command.
func LoginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Authenticate with the MCP server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "email",
				Aliases: []string{"e"},
				Usage:   "Account email",
			},
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "Account password",
			},
			&cli.BoolFlag{
				Name:    "remember",
				Aliases: []string{"r"},
				Usage:   "Keep the session across restarts (no inactivity expiry)",
			},
		},
		Action: login,
	}
}

func login(c *cli.Context) error {
	rt := getRuntime(c)

	email := c.String("email")
	if email == "" {
		email = rt.readLine("Email: ")
	}
	password := c.String("password")
	if password == "" {
		password = rt.readLine("Password: ")
	}
	if email == "" || password == "" {
		return fmt.Errorf("email and password required")
	}

	ctx, cancel := rt.requestContext()
	defer cancel()

	err := rt.withSpinner("Logging in...", func() error {
		return rt.flow.Login(ctx, email, password, c.Bool("remember"))
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(rt.out, "Logged in as %s.\n", email)
	if c.Bool("remember") {
		fmt.Fprintln(rt.out, "Session will persist until you log out.")
	}
	return nil
}

// LogoutCommand returns the logout command.
func LogoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "End the session and discard stored credentials",
		Action: func(c *cli.Context) error {
			rt := getRuntime(c)
			rt.flow.Logout()
			fmt.Fprintln(rt.out, "Logged out.")
			return nil
		},
	}
}

// RegisterCommand returns the register command.
func RegisterCommand() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "Create a new MCP account",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "email",
				Aliases: []string{"e"},
				Usage:   "Account email",
			},
			&cli.StringFlag{
				Name:    "password",
				Aliases: []string{"p"},
				Usage:   "Account password",
			},
		},
		Action: register,
	}
}

func register(c *cli.Context) error {
	rt := getRuntime(c)

	email := c.String("email")
	if email == "" {
		email = rt.readLine("Email: ")
	}
	password := c.String("password")
	if password == "" {
		password = rt.readLine("Password: ")
	}
	if email == "" || password == "" {
		return fmt.Errorf("email and password required")
	}

	ctx, cancel := rt.requestContext()
	defer cancel()

	err := rt.withSpinner("Registering account...", func() error {
		return rt.flow.Register(ctx, email, password)
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(rt.out, "Registration successful. You can now log in.")
	return nil
}

// WhoamiCommand returns the whoami command.
func WhoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "Show the account behind the current session",
		Action: func(c *cli.Context) error {
			rt := getRuntime(c)

			ctx, cancel := rt.requestContext()
			defer cancel()

			if err := rt.ensureSession(ctx); err != nil {
				return err
			}

			var account *client.Account
			err := rt.withSpinner("Fetching account...", func() error {
				var err error
				account, err = rt.flow.Whoami(ctx)
				return err
			})
			if err != nil {
				return err
			}
			return rt.formatter().Format(rt.out, account)
		},
	}
}
