package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
)

type whoamiCmd struct {
	app *App
}

func (*whoamiCmd) Name() string     { return "whoami" }
func (*whoamiCmd) Synopsis() string { return "show the current session's user" }
func (*whoamiCmd) Usage() string {
	return `whoami

  Prints the profile attached to the current session, refreshing it from the
  backend first.
`
}

func (*whoamiCmd) SetFlags(*flag.FlagSet) {}

func (c *whoamiCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.app.guardPrivate() {
		return subcommands.ExitFailure
	}

	// A restored session may not have a profile yet, and a stale one may
	// have been revoked server-side; refetch and re-check.
	c.app.Session.FetchCurrentUser(ctx)
	snap := c.app.Session.Snapshot()
	if !snap.Authenticated || snap.User == nil {
		fmt.Println("Session expired. Run 'investai login' again.")
		return subcommands.ExitFailure
	}

	u := snap.User
	fmt.Printf("%s <%s>\n", u.FullName(), u.Email)
	fmt.Printf("  role: %s\n", u.Role)
	fmt.Printf("  mfa:  %v\n", u.MFAEnabled)
	return subcommands.ExitSuccess
}
