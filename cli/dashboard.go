package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"
)

type dashboardCmd struct {
	app       *App
	portfolio string
}

func (*dashboardCmd) Name() string     { return "dashboard" }
func (*dashboardCmd) Synopsis() string { return "show the aggregate portfolio dashboard" }
func (*dashboardCmd) Usage() string {
	return `dashboard [-portfolio <id>]

  Shows total value, gain and allocation breakdown. Without -portfolio the
  figures aggregate every portfolio.
`
}

func (c *dashboardCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "portfolio", "", "Restrict the dashboard to one portfolio")
}

func (c *dashboardCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.app.guardPrivate() {
		return subcommands.ExitFailure
	}

	summary, err := c.app.API.Analytics().Dashboard(ctx, c.portfolio)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Total value: %s\n", formatAmount(summary.TotalValue, summary.Currency))
	fmt.Printf("Total gain:  %s (%s)\n",
		formatAmount(summary.TotalGain, summary.Currency),
		formatPercent(summary.GainPercent))
	fmt.Printf("Day change:  %s\n", formatAmount(summary.DayChange, summary.Currency))

	if len(summary.Allocation) > 0 {
		fmt.Println("\nAllocation:")
		w := tabwriter.NewWriter(os.Stdout, 2, 2, 2, ' ', 0)
		for _, slice := range summary.Allocation {
			fmt.Fprintf(w, "  %s\t%s\t%s\n",
				slice.Label,
				formatAmount(slice.Value, summary.Currency),
				formatPercent(slice.Percent))
		}
		w.Flush()
	}
	return subcommands.ExitSuccess
}
