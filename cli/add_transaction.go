package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/investai/investai-go/api"
)

type addTransactionCmd struct {
	app       *App
	portfolio string
	txType    string
	symbol    string
	quantity  string
	price     string
	fee       string
	currency  string
	date      string
	note      string
}

func (*addTransactionCmd) Name() string     { return "tx-add" }
func (*addTransactionCmd) Synopsis() string { return "log a transaction" }
func (*addTransactionCmd) Usage() string {
	return `tx-add -portfolio <id> -type <type> [-symbol S] [-quantity N] [-price N] [-fee N] [-currency EUR] [-date YYYY-MM-DD] [-note ...]

  Logs one transaction. Deposits and withdrawals need no symbol; everything
  else does.
`
}

func (c *addTransactionCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.portfolio, "portfolio", "", "Portfolio ID (required)")
	f.StringVar(&c.txType, "type", "", "Transaction type (required)")
	f.StringVar(&c.symbol, "symbol", "", "Instrument symbol")
	f.StringVar(&c.quantity, "quantity", "0", "Quantity")
	f.StringVar(&c.price, "price", "0", "Unit price")
	f.StringVar(&c.fee, "fee", "0", "Broker fee")
	f.StringVar(&c.currency, "currency", "", "Currency (ISO 4217, defaults to the configured one)")
	f.StringVar(&c.date, "date", "", "Execution date (YYYY-MM-DD, defaults to today)")
	f.StringVar(&c.note, "note", "", "Free-form note")
}

func (c *addTransactionCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.app.guardPrivate() {
		return subcommands.ExitFailure
	}

	input, err := c.input()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}

	tx, err := c.app.API.Transactions().Create(ctx, input)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Logged %s of %s %s (%s).\n", tx.Type, tx.Quantity.String(), tx.Symbol, tx.ID)
	return subcommands.ExitSuccess
}

func (c *addTransactionCmd) input() (api.TransactionInput, error) {
	quantity, err := decimal.NewFromString(c.quantity)
	if err != nil {
		return api.TransactionInput{}, fmt.Errorf("invalid quantity %q", c.quantity)
	}
	price, err := decimal.NewFromString(c.price)
	if err != nil {
		return api.TransactionInput{}, fmt.Errorf("invalid price %q", c.price)
	}
	fee, err := decimal.NewFromString(c.fee)
	if err != nil {
		return api.TransactionInput{}, fmt.Errorf("invalid fee %q", c.fee)
	}

	executedAt := time.Now()
	if c.date != "" {
		if executedAt, err = time.Parse("2006-01-02", c.date); err != nil {
			return api.TransactionInput{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", c.date)
		}
	}

	currency := c.currency
	if currency == "" {
		currency = c.app.Config.Currency
	}

	input := api.TransactionInput{
		PortfolioID: c.portfolio,
		Type:        api.TransactionType(c.txType),
		Symbol:      c.symbol,
		Quantity:    quantity,
		UnitPrice:   price,
		Fee:         fee,
		Currency:    currency,
		ExecutedAt:  executedAt,
		Note:        c.note,
	}
	return input, checkInput(input)
}
