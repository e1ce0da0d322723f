package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/investai/investai-go/api"
)

type reportCmd struct {
	app       *App
	year      int
	format    string
	portfolio string
	output    string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "show or download a tax report" }
func (*reportCmd) Usage() string {
	return `report [-year YYYY] [-portfolio <id>] [-o <file> [-format pdf|xlsx]]

  Without -o, prints the on-screen tax summary for the year. With -o, the
  backend generates the full document and it is written to the file.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.year, "year", time.Now().Year()-1, "Tax year")
	f.StringVar(&c.format, "format", "pdf", "Download format (pdf or xlsx)")
	f.StringVar(&c.portfolio, "portfolio", "", "Restrict to one portfolio")
	f.StringVar(&c.output, "o", "", "Write the generated document to this file")
}

func (c *reportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.app.guardPrivate() {
		return subcommands.ExitFailure
	}

	req := api.TaxReportRequest{
		Year:        c.year,
		Format:      api.ReportFormat(c.format),
		PortfolioID: c.portfolio,
	}

	if c.output == "" {
		summary, err := c.app.API.Reports().TaxSummary(ctx, req)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		if summary.Markdown != "" {
			renderMarkdown(summary.Markdown)
		} else {
			fmt.Printf("Tax year %d (%s)\n", summary.Year, summary.Currency)
			fmt.Printf("  realized gains: %s\n", summary.RealizedGains)
			fmt.Printf("  dividends:      %s\n", summary.Dividends)
			fmt.Printf("  fees:           %s\n", summary.Fees)
		}
		return subcommands.ExitSuccess
	}

	if req.Format != api.FormatPDF && req.Format != api.FormatExcel {
		fmt.Fprintf(os.Stderr, "Error: unsupported format %q.\n", c.format)
		return subcommands.ExitUsageError
	}

	out, err := os.Create(c.output)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	defer out.Close()

	n, err := c.app.API.Reports().DownloadTaxReport(ctx, req, out)
	if err != nil {
		os.Remove(c.output)
		fmt.Fprintln(os.Stderr, "Download failed:", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Wrote %s (%d bytes).\n", c.output, n)
	return subcommands.ExitSuccess
}
