package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pricecomparator/market-service/internal/optimizer"
)

var optimizeOutput string

// optimizeCmd represents the optimize command
var optimizeCmd = &cobra.Command{
	Use:   "optimize <product-id>...",
	Short: "Split a shopping basket across stores for the lowest total",
	Long: `Optimize a shopping basket by assigning each product to the store
offering the lowest discount-adjusted price on the query date. Repeat a
product ID to buy more than one of it.`,
	Example: `  market-service optimize P001 P002 P002 --data ./data --date 2025-05-08
  market-service optimize P001 --data ./data --output json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runOptimize,
}

func init() {
	rootCmd.AddCommand(optimizeCmd)

	optimizeCmd.Flags().StringVar(&optimizeOutput, "output", "table", "Output format: table or json")
}

func runOptimize(cmd *cobra.Command, args []string) error {
	date, err := queryDate()
	if err != nil {
		return err
	}
	repo, err := loadRepository()
	if err != nil {
		return err
	}

	opt := optimizer.NewBasketOptimizer(repo, optimizer.DefaultOptimizerConfig())
	result, err := opt.Optimize(&optimizer.OptimizeRequest{Basket: args, Date: date})
	if err != nil {
		return err
	}

	if optimizeOutput == "json" {
		return json.NewEncoder(os.Stdout).Encode(result)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, list := range result.Stores {
		fmt.Fprintf(w, "%s\t\t\t\n", list.Store)
		for _, line := range list.Lines {
			fmt.Fprintf(w, "  %s\t%s\tx%d\t%.2f\n", line.ProductID, line.Name, line.Quantity, line.LineTotal)
		}
		fmt.Fprintf(w, "  subtotal\t\t\t%.2f\n", list.Subtotal)
	}
	for _, id := range result.Missing {
		fmt.Fprintf(w, "missing\t%s\t\t\n", id)
	}
	fmt.Fprintf(w, "total\t\t\t%.2f\n", result.DiscountedTotal)
	fmt.Fprintf(w, "savings\t\t\t%.2f\n", result.Savings)
	return w.Flush()
}
