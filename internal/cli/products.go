package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"degiro-trader/internal/api"
	"degiro-trader/internal/webapi"
)

// addProductCommands adds product search and market data commands.
func addProductCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newSearchCmd(app))
	rootCmd.AddCommand(newProductCmd(app))
	rootCmd.AddCommand(newNewsCmd(app))
}

func newSearchCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: "Search the product catalogue",
		Args:  cobra.MinimumNArgs(1),
		Example: `  degiro-trader search airbus
  degiro-trader search "royal dutch" --limit=25`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := app.requestContext()
			defer cancel()

			if err := app.connect(ctx, output); err != nil {
				return err
			}

			limit, _ := cmd.Flags().GetInt("limit")
			products, err := app.Trader.SearchProducts(ctx, webapi.SearchOptions{
				SearchText: strings.Join(args, " "),
				Limit:      limit,
			})
			if err != nil {
				output.Error("Search failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(products)
			}

			if len(products) == 0 {
				output.Println("No products found.")
				return nil
			}
			table := NewTable(output, "ID", "Symbol", "Name", "Currency", "Type")
			for _, p := range products {
				table.AddRow(p.ID, p.Symbol, p.Name, p.Currency, p.ProductType)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().Int("limit", 10, "maximum number of results")
	return cmd
}

func newProductCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "product <id>...",
		Short: "Show full product records by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := app.requestContext()
			defer cancel()

			if err := app.connect(ctx, output); err != nil {
				return err
			}

			products, err := api.CollectProducts(app.Trader.ResolveProducts(ctx, args))
			if err != nil {
				output.Error("Resolving products failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(products)
			}

			for i, p := range products {
				if i > 0 {
					output.Println()
				}
				output.Bold("%s (%s)", p.Name, p.Symbol)
				output.Printf("  ID:       %s\n", p.ID)
				output.Printf("  ISIN:     %s\n", p.ISIN)
				output.Printf("  Currency: %s\n", p.Currency)
				output.Printf("  Type:     %s\n", p.ProductType)
				output.Printf("  Tradable: %v\n", p.Tradable)
				if p.ClosePrice != 0 {
					output.Printf("  Close:    %s\n", FormatMoney(p.Currency, p.ClosePrice))
				}
			}
			return nil
		},
	}
}

func newNewsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "news <isin>",
		Short: "Show company news by ISIN",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := app.requestContext()
			defer cancel()

			if err := app.connect(ctx, output); err != nil {
				return err
			}

			limit, _ := cmd.Flags().GetInt("limit")
			news, err := app.Trader.CompanyNews(ctx, args[0], webapi.NewsOptions{Limit: limit})
			if err != nil {
				output.Error("Fetching news failed: %v", err)
				return err
			}

			// News items keep their raw shape; print as JSON either way.
			if err := output.JSON(news); err != nil {
				return fmt.Errorf("rendering news: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().Int("limit", 10, "maximum number of items")
	return cmd
}
