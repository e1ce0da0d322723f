package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type loginCmd struct {
	app      *App
	email    string
	password string
}

type loginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "authenticate against the InvestAI backend" }
func (*loginCmd) Usage() string {
	return `login -email <email> -password <password>

  Logs in and stores the session tokens so subsequent commands (and future
  runs) are authenticated.
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "email", "", "Account email (required)")
	f.StringVar(&c.password, "password", "", "Account password (required)")
}

func (c *loginCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := checkInput(loginInput{Email: c.email, Password: c.password}); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}

	if err := c.app.Session.Login(ctx, c.email, c.password); err != nil {
		// The store keeps the display message; the returned error carries
		// the full chain for logs.
		if msg := c.app.Session.Snapshot().Err; msg != "" {
			fmt.Fprintln(os.Stderr, "Login failed:", msg)
		} else {
			fmt.Fprintln(os.Stderr, "Login failed:", err)
		}
		return subcommands.ExitFailure
	}

	snap := c.app.Session.Snapshot()
	name := snap.User.FullName()
	if name == "" {
		name = snap.User.Email
	}
	fmt.Printf("Logged in as %s.\n", name)
	if snap.User.MFAEnabled {
		fmt.Println("Multi-factor authentication is active on this account.")
	}
	return subcommands.ExitSuccess
}
