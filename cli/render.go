package cli

import (
	"fmt"
	"os"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"
)

// formatAmount renders a decimal amount in its currency's conventional
// format (symbol, grouping, fraction digits).
func formatAmount(value decimal.Decimal, currency string) string {
	cur := *money.New(0, currency).Currency()
	minor := value.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return cur.Formatter().Format(minor)
}

// formatPercent renders a percentage with two decimals and an explicit sign.
func formatPercent(value decimal.Decimal) string {
	sign := ""
	if value.IsPositive() {
		sign = "+"
	}
	return sign + value.StringFixed(2) + "%"
}

// renderMarkdown pretty-prints markdown to the terminal, falling back to the
// raw text when the renderer cannot be built (e.g. no TTY capabilities).
func renderMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		fmt.Println(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Println(md)
		return
	}
	fmt.Fprint(os.Stdout, out)
}
