package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/investai/investai-go/users"
)

type adminUsersCmd struct {
	app     *App
	page    int
	perPage int
	setRole string
	role    string
	block   string
	unblock string
}

func (*adminUsersCmd) Name() string     { return "admin-users" }
func (*adminUsersCmd) Synopsis() string { return "manage accounts (admin only)" }
func (*adminUsersCmd) Usage() string {
	return `admin-users [-page N] [-per-page N]
admin-users -set-role <id> -role user|admin
admin-users -block <id> | -unblock <id>

  Lists accounts, changes roles, or blocks and unblocks accounts. Requires
  the admin role.
`
}

func (c *adminUsersCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.page, "page", 1, "Page number")
	f.IntVar(&c.perPage, "per-page", 25, "Page size")
	f.StringVar(&c.setRole, "set-role", "", "Change the role of the account with this ID")
	f.StringVar(&c.role, "role", "", "New role (user or admin)")
	f.StringVar(&c.block, "block", "", "Block the account with this ID")
	f.StringVar(&c.unblock, "unblock", "", "Unblock the account with this ID")
}

func (c *adminUsersCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.app.guardAdmin() {
		return subcommands.ExitFailure
	}

	admin := c.app.API.Admin()
	switch {
	case c.setRole != "":
		if c.role != string(users.RoleUser) && c.role != string(users.RoleAdmin) {
			fmt.Fprintf(os.Stderr, "Error: -role must be user or admin, got %q.\n", c.role)
			return subcommands.ExitUsageError
		}
		if err := admin.SetRole(ctx, c.setRole, users.Role(c.role)); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Role of %s set to %s.\n", c.setRole, c.role)
		return subcommands.ExitSuccess
	case c.block != "":
		if err := admin.SetBlocked(ctx, c.block, true); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		fmt.Println("Account blocked.")
		return subcommands.ExitSuccess
	case c.unblock != "":
		if err := admin.SetBlocked(ctx, c.unblock, false); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		fmt.Println("Account unblocked.")
		return subcommands.ExitSuccess
	}

	page, err := admin.ListUsers(ctx, c.page, c.perPage)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 2, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMAIL\tROLE\tVERIFIED\tBLOCKED")
	for _, u := range page.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%v\n", u.ID, u.Email, u.Role, u.Verified, u.Blocked)
	}
	w.Flush()
	fmt.Printf("\nPage %d, %d of %d accounts.\n", page.Page, len(page.Items), page.Total)
	return subcommands.ExitSuccess
}
