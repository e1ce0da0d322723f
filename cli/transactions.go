package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"

	"github.com/investai/investai-go/api"
)

type transactionsCmd struct {
	app       *App
	portfolio string
	txType    string
	from      string
	to        string
	page      int
	perPage   int
}

func (*transactionsCmd) Name() string     { return "transactions" }
func (*transactionsCmd) Synopsis() string { return "list logged transactions" }
func (*transactionsCmd) Usage() string {
	return `transactions [-portfolio <id>] [-type <type>] [-from YYYY-MM-DD] [-to YYYY-MM-DD] [-page N] [-per-page N]

  Lists transactions, newest first, filtered and paginated server-side.
`
}

func (c *transactionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "portfolio", "", "Restrict to one portfolio")
	f.StringVar(&c.txType, "type", "", "Filter by type (buy, sell, dividend, deposit, withdrawal, fee)")
	f.StringVar(&c.from, "from", "", "Earliest execution date (YYYY-MM-DD)")
	f.StringVar(&c.to, "to", "", "Latest execution date (YYYY-MM-DD)")
	f.IntVar(&c.page, "page", 1, "Page number")
	f.IntVar(&c.perPage, "per-page", 25, "Page size")
}

func (c *transactionsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.app.guardPrivate() {
		return subcommands.ExitFailure
	}

	opts := api.ListOptions{
		PortfolioID: c.portfolio,
		Type:        api.TransactionType(c.txType),
		Page:        c.page,
		PerPage:     c.perPage,
	}
	var err error
	if opts.From, err = parseDateFlag(c.from); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	if opts.To, err = parseDateFlag(c.to); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}

	page, err := c.app.API.Transactions().List(ctx, opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	if len(page.Items) == 0 {
		fmt.Println("No transactions.")
		return subcommands.ExitSuccess
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 2, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tTYPE\tSYMBOL\tQTY\tPRICE\tFEE")
	for _, tx := range page.Items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			tx.ExecutedAt.Format("2006-01-02"),
			tx.Type,
			tx.Symbol,
			tx.Quantity.String(),
			formatAmount(tx.UnitPrice, tx.Currency),
			formatAmount(tx.Fee, tx.Currency))
	}
	w.Flush()
	fmt.Printf("\nPage %d, %d of %d transactions.\n", page.Page, len(page.Items), page.Total)
	return subcommands.ExitSuccess
}

// parseDateFlag parses an optional YYYY-MM-DD flag value; empty means unset.
func parseDateFlag(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}
