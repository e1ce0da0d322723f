package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/investai/investai-go/api"
)

type portfoliosCmd struct {
	app         *App
	create      bool
	update      string
	remove      string
	name        string
	description string
	currency    string
}

func (*portfoliosCmd) Name() string     { return "portfolios" }
func (*portfoliosCmd) Synopsis() string { return "list and manage portfolios" }
func (*portfoliosCmd) Usage() string {
	return `portfolios [-create | -update <id> | -delete <id>] [-name ...] [-description ...] [-currency ...]

  Without flags, lists all portfolios. -create and -update take the -name,
  -description and -currency flags.
`
}

func (c *portfoliosCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.create, "create", false, "Create a new portfolio")
	f.StringVar(&c.update, "update", "", "Update the portfolio with this ID")
	f.StringVar(&c.remove, "delete", "", "Delete the portfolio with this ID")
	f.StringVar(&c.name, "name", "", "Portfolio name")
	f.StringVar(&c.description, "description", "", "Portfolio description")
	f.StringVar(&c.currency, "currency", "", "Portfolio currency (ISO 4217, e.g. EUR)")
}

func (c *portfoliosCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.app.guardPrivate() {
		return subcommands.ExitFailure
	}

	switch {
	case c.create:
		return c.runCreate(ctx)
	case c.update != "":
		return c.runUpdate(ctx)
	case c.remove != "":
		return c.runDelete(ctx)
	default:
		return c.runList(ctx)
	}
}

func (c *portfoliosCmd) input() (api.PortfolioInput, error) {
	currency := c.currency
	if currency == "" {
		currency = c.app.Config.Currency
	}
	input := api.PortfolioInput{Name: c.name, Description: c.description, Currency: currency}
	return input, checkInput(input)
}

func (c *portfoliosCmd) runList(ctx context.Context) subcommands.ExitStatus {
	portfolios, err := c.app.API.Portfolios().List(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	if len(portfolios) == 0 {
		fmt.Println("No portfolios yet. Create one with 'portfolios -create -name ...'.")
		return subcommands.ExitSuccess
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 2, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tVALUE\tGAIN")
	for _, p := range portfolios {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			p.ID, p.Name,
			formatAmount(p.TotalValue, p.Currency),
			formatAmount(p.TotalGain, p.Currency))
	}
	w.Flush()
	return subcommands.ExitSuccess
}

func (c *portfoliosCmd) runCreate(ctx context.Context) subcommands.ExitStatus {
	input, err := c.input()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	p, err := c.app.API.Portfolios().Create(ctx, input)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Created portfolio %q (%s).\n", p.Name, p.ID)
	return subcommands.ExitSuccess
}

func (c *portfoliosCmd) runUpdate(ctx context.Context) subcommands.ExitStatus {
	input, err := c.input()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	p, err := c.app.API.Portfolios().Update(ctx, c.update, input)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Updated portfolio %q.\n", p.Name)
	return subcommands.ExitSuccess
}

func (c *portfoliosCmd) runDelete(ctx context.Context) subcommands.ExitStatus {
	if err := c.app.API.Portfolios().Delete(ctx, c.remove); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Println("Portfolio deleted.")
	return subcommands.ExitSuccess
}
