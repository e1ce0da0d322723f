package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/subcommands"
)

type importCmd struct {
	app       *App
	portfolio string
	file      string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import a broker CSV export" }
func (*importCmd) Usage() string {
	return `import -portfolio <id> -file <export.csv>

  Uploads a CSV export from a broker. The backend detects which platform
  produced the file and parses it accordingly; already-imported rows are
  skipped.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "portfolio", "", "Target portfolio ID (required)")
	f.StringVar(&c.file, "file", "", "Path to the CSV export (required)")
}

func (c *importCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.app.guardPrivate() {
		return subcommands.ExitFailure
	}
	if c.portfolio == "" || c.file == "" {
		fmt.Fprintln(os.Stderr, "Error: -portfolio and -file are required.")
		return subcommands.ExitUsageError
	}

	f, err := os.Open(c.file)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	defer f.Close()

	result, err := c.app.API.Transactions().ImportCSV(ctx, c.portfolio, filepath.Base(c.file), f)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Import failed:", err)
		return subcommands.ExitFailure
	}

	fmt.Printf("Detected platform: %s\n", result.Platform)
	fmt.Printf("Imported %d transactions, skipped %d.\n", result.Imported, result.Skipped)
	for _, e := range result.Errors {
		fmt.Fprintln(os.Stderr, "  warning:", e)
	}
	return subcommands.ExitSuccess
}
