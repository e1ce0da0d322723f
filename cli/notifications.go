package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type notificationsCmd struct {
	app        *App
	unreadOnly bool
	markRead   string
	markAll    bool
	prefs      bool
	email      string
	alerts     string
	monthly    string
}

func (*notificationsCmd) Name() string     { return "notifications" }
func (*notificationsCmd) Synopsis() string { return "list notifications and manage preferences" }
func (*notificationsCmd) Usage() string {
	return `notifications [-unread] [-read <id> | -read-all]
notifications -prefs [-email on|off] [-alerts on|off] [-monthly on|off]

  Lists notifications, marks them read, or shows and updates delivery
  preferences.
`
}

func (c *notificationsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.unreadOnly, "unread", false, "Only list unread notifications")
	f.StringVar(&c.markRead, "read", "", "Mark the notification with this ID as read")
	f.BoolVar(&c.markAll, "read-all", false, "Mark every notification as read")
	f.BoolVar(&c.prefs, "prefs", false, "Show or update delivery preferences")
	f.StringVar(&c.email, "email", "", "Toggle email delivery (on or off)")
	f.StringVar(&c.alerts, "alerts", "", "Toggle price alerts (on or off)")
	f.StringVar(&c.monthly, "monthly", "", "Toggle the monthly report (on or off)")
}

func (c *notificationsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.app.guardPrivate() {
		return subcommands.ExitFailure
	}

	switch {
	case c.prefs:
		return c.runPrefs(ctx)
	case c.markRead != "":
		if err := c.app.API.Notifications().MarkRead(ctx, c.markRead); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		fmt.Println("Marked as read.")
		return subcommands.ExitSuccess
	case c.markAll:
		if err := c.app.API.Notifications().MarkAllRead(ctx); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		fmt.Println("All notifications marked as read.")
		return subcommands.ExitSuccess
	default:
		return c.runList(ctx)
	}
}

func (c *notificationsCmd) runList(ctx context.Context) subcommands.ExitStatus {
	items, err := c.app.API.Notifications().List(ctx, c.unreadOnly)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	if len(items) == 0 {
		fmt.Println("No notifications.")
		return subcommands.ExitSuccess
	}
	for _, n := range items {
		marker := " "
		if !n.Read {
			marker = "*"
		}
		fmt.Printf("%s %s  %s  %s\n", marker, n.CreatedAt.Format("2006-01-02 15:04"), n.ID, n.Title)
		if n.Message != "" {
			fmt.Printf("    %s\n", n.Message)
		}
	}
	return subcommands.ExitSuccess
}

func (c *notificationsCmd) runPrefs(ctx context.Context) subcommands.ExitStatus {
	svc := c.app.API.Notifications()
	prefs, err := svc.GetPreferences(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	changed := false
	for _, t := range []struct {
		flag   string
		target *bool
	}{
		{c.email, &prefs.EmailEnabled},
		{c.alerts, &prefs.PriceAlerts},
		{c.monthly, &prefs.MonthlyReport},
	} {
		switch t.flag {
		case "":
		case "on":
			*t.target = true
			changed = true
		case "off":
			*t.target = false
			changed = true
		default:
			fmt.Fprintf(os.Stderr, "Error: expected on or off, got %q.\n", t.flag)
			return subcommands.ExitUsageError
		}
	}

	if changed {
		if err := svc.UpdatePreferences(ctx, prefs); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		fmt.Println("Preferences updated.")
	}
	fmt.Printf("email:   %s\n", onOff(prefs.EmailEnabled))
	fmt.Printf("alerts:  %s\n", onOff(prefs.PriceAlerts))
	fmt.Printf("monthly: %s\n", onOff(prefs.MonthlyReport))
	return subcommands.ExitSuccess
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
