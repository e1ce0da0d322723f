// Package cli implements the terminal front-end: one subcommand per screen
// of the InvestAI application, all consuming the session store and the typed
// API client.
package cli

import (
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/investai/investai-go/api"
	"github.com/investai/investai-go/guard"
	"github.com/investai/investai-go/internal/config"
	"github.com/investai/investai-go/session"
)

// App bundles the dependencies shared by every command. It is built once in
// main and injected into the commands; there is no package-level state.
type App struct {
	Config  config.Config
	Session *session.Store
	API     *api.Client
}

// Register returns all commands bound to the app, ready to hand to a
// subcommands.Commander.
func Register(app *App) []subcommands.Command {
	return []subcommands.Command{
		&loginCmd{app: app},
		&logoutCmd{app: app},
		&whoamiCmd{app: app},
		&verifyEmailCmd{app: app},
		&dashboardCmd{app: app},
		&portfoliosCmd{app: app},
		&transactionsCmd{app: app},
		&addTransactionCmd{app: app},
		&importCmd{app: app},
		&reportCmd{app: app},
		&notificationsCmd{app: app},
		&adminUsersCmd{app: app},
	}
}

// guardPrivate evaluates the private route guard and reports whether the
// command may run, printing the redirect hint otherwise.
func (app *App) guardPrivate() bool {
	return app.deny(guard.Private(app.Session.Snapshot()))
}

// guardAdmin evaluates the admin route guard.
func (app *App) guardAdmin() bool {
	return app.deny(guard.Admin(app.Session.Snapshot()))
}

func (app *App) deny(d guard.Decision) bool {
	switch d {
	case guard.Allow:
		return true
	case guard.RedirectLogin:
		fmt.Fprintln(os.Stderr, "Not logged in. Run 'investai login' first.")
	case guard.RedirectHome:
		fmt.Fprintln(os.Stderr, "This command requires the admin role.")
	}
	return false
}
