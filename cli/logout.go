package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type logoutCmd struct {
	app *App
}

func (*logoutCmd) Name() string     { return "logout" }
func (*logoutCmd) Synopsis() string { return "drop the current session" }
func (*logoutCmd) Usage() string {
	return `logout

  Clears the in-memory session and the persisted token pair. Safe to run
  when already logged out.
`
}

func (*logoutCmd) SetFlags(*flag.FlagSet) {}

func (c *logoutCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	c.app.Session.Logout()
	fmt.Println("Logged out.")
	return subcommands.ExitSuccess
}
