package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"degiro-trader/internal/models"
)

// addAccountCommands adds portfolio, orders and transactions commands.
func addAccountCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newPortfolioCmd(app))
	rootCmd.AddCommand(newOrdersCmd(app))
	rootCmd.AddCommand(newTransactionsCmd(app))
}

func newPortfolioCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "portfolio",
		Short: "Show current positions and cash balances",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := app.requestContext()
			defer cancel()

			if err := app.connect(ctx, output); err != nil {
				return err
			}

			portfolio, err := app.Trader.GetPortfolio(ctx)
			if err != nil {
				output.Error("Fetching portfolio failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(portfolio)
			}

			if len(portfolio.Positions) == 0 {
				output.Println("No positions.")
			} else {
				table := NewTable(output, "ID", "Type", "Size", "Price", "Value", "P/L")
				for _, pos := range portfolio.Positions {
					table.AddRow(
						pos.ID,
						string(pos.PositionType),
						fmt.Sprintf("%.2f", pos.Size),
						fmt.Sprintf("%.2f", pos.Price),
						fmt.Sprintf("%.2f", pos.Value),
						output.FormatPnL("", positionPl(pos)),
					)
				}
				table.Render()
			}

			output.Println()
			output.Bold("Totals")
			output.Printf("  Total Cash: %.2f\n", portfolio.Total.TotalCash)
			if portfolio.Total.ReportPortfValue != 0 {
				output.Printf("  Portfolio Value: %.2f\n", portfolio.Total.ReportPortfValue)
			}
			return nil
		},
	}
}

func newOrdersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Show open and historical orders",
		Long: `Show currently open orders and order history.

The date window defaults to the last seven days; override with --from/--to.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := app.requestContext()
			defer cancel()

			if err := app.connect(ctx, output); err != nil {
				return err
			}

			from, to, err := dateWindowFlags(cmd, app)
			if err != nil {
				return err
			}

			current, historical, err := app.Trader.GetOrders(ctx, from, to)
			if err != nil {
				output.Error("Fetching orders failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(map[string][]models.Order{
					"current":    current,
					"historical": historical,
				})
			}

			output.Bold("Open Orders")
			renderOrders(output, current)
			output.Println()
			output.Bold("Order History")
			renderOrders(output, historical)
			return nil
		},
	}

	addDateWindowFlags(cmd)
	return cmd
}

func renderOrders(output *Output, orders []models.Order) {
	if len(orders) == 0 {
		output.Println("  none")
		return
	}
	table := NewTable(output, "ID", "Product", "Side", "Size", "Price", "Status")
	for _, order := range orders {
		table.AddRow(
			order.ID,
			order.ProductID,
			sideCell(output, order.Side),
			fmt.Sprintf("%.2f", order.Size),
			fmt.Sprintf("%.2f", order.Price),
			order.Status,
		)
	}
	table.Render()
}

func newTransactionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "Show executed trades with product details",
		Long: `Show executed trades for a date window, with each product resolved
to its full record.

The date window defaults to the last seven days; override with --from/--to.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := app.requestContext()
			defer cancel()

			if err := app.connect(ctx, output); err != nil {
				return err
			}

			from, to, err := dateWindowFlags(cmd, app)
			if err != nil {
				return err
			}

			transactions, err := app.Trader.GetTransactions(ctx, from, to)
			if err != nil {
				output.Error("Fetching transactions failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(transactions)
			}

			if len(transactions) == 0 {
				output.Println("No transactions.")
				return nil
			}
			table := NewTable(output, "Date", "Product", "Side", "Qty", "Price", "Total")
			for _, tx := range transactions {
				table.AddRow(
					tx.Date.Format(app.dateFormat()),
					tx.Product.Name,
					sideCell(output, tx.Side),
					fmt.Sprintf("%.2f", tx.Quantity),
					FormatMoney(tx.Product.Currency, tx.Price),
					FormatMoney("", tx.Total),
				)
			}
			table.Render()
			return nil
		},
	}

	addDateWindowFlags(cmd)
	return cmd
}

// positionPl folds the per-currency profit/loss block into one figure for the
// table cell.
func positionPl(pos models.Position) float64 {
	var total float64
	for _, v := range pos.PlBase {
		total += v
	}
	return total
}

func sideCell(output *Output, side models.OrderSide) string {
	if side == models.OrderSideBuy {
		return output.Green(string(side))
	}
	return output.Red(string(side))
}

func addDateWindowFlags(cmd *cobra.Command) {
	cmd.Flags().String("from", "", "start date (default: 7 days before --to)")
	cmd.Flags().String("to", "", "end date (default: today)")
}

// dateWindowFlags parses --from/--to; zero values mean "use the defaults".
func dateWindowFlags(cmd *cobra.Command, app *App) (time.Time, time.Time, error) {
	layout := app.dateFormat()

	var from, to time.Time
	if v, _ := cmd.Flags().GetString("from"); v != "" {
		parsed, err := time.Parse(layout, v)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parsing --from: %w", err)
		}
		from = parsed
	}
	if v, _ := cmd.Flags().GetString("to"); v != "" {
		parsed, err := time.Parse(layout, v)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parsing --to: %w", err)
		}
		to = parsed
	}
	return from, to, nil
}

func (app *App) dateFormat() string {
	if app.Config.UI.DateFormat != "" {
		return app.Config.UI.DateFormat
	}
	return "2006-01-02"
}
