package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	discountsStore  string
	discountsLimit  int
	discountsNew    bool
	discountsOutput string
)

// discountsCmd represents the discounts command
var discountsCmd = &cobra.Command{
	Use:   "discounts",
	Short: "List the best or newest discounts",
	Long: `List active discounts on the query date. By default the highest
percentages across all stores are shown; --new restricts the listing to
discounts whose window starts on that date.`,
	Example: `  market-service discounts --data ./data --limit 5
  market-service discounts --data ./data --store Lidl --new`,
	RunE: runDiscounts,
}

func init() {
	rootCmd.AddCommand(discountsCmd)

	discountsCmd.Flags().StringVar(&discountsStore, "store", "", "Restrict to one store")
	discountsCmd.Flags().IntVar(&discountsLimit, "limit", 10, "Maximum discounts to list")
	discountsCmd.Flags().BoolVar(&discountsNew, "new", false, "Only discounts starting on the query date")
	discountsCmd.Flags().StringVar(&discountsOutput, "output", "table", "Output format: table or json")
}

func runDiscounts(cmd *cobra.Command, args []string) error {
	date, err := queryDate()
	if err != nil {
		return err
	}
	repo, err := loadRepository()
	if err != nil {
		return err
	}

	if discountsNew {
		fresh := repo.Discounts().NewestDiscounts(discountsStore, date)
		if discountsOutput == "json" {
			return json.NewEncoder(os.Stdout).Encode(fresh)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "STORE\tPRODUCT\tWINDOW\tPERCENT")
		for store, discounts := range fresh {
			for _, d := range discounts {
				fmt.Fprintf(w, "%s\t%s\t%s..%s\t%d%%\n", store, d.ProductName, d.FromDate, d.ToDate, d.Percent)
			}
		}
		return w.Flush()
	}

	ranked := repo.Discounts().BestDiscounts(discountsStore, date, discountsLimit)
	if discountsOutput == "json" {
		return json.NewEncoder(os.Stdout).Encode(ranked)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STORE\tPRODUCT\tWINDOW\tPERCENT")
	for _, r := range ranked {
		d := r.Discount
		fmt.Fprintf(w, "%s\t%s\t%s..%s\t%d%%\n", r.Store, d.ProductName, d.FromDate, d.ToDate, d.Percent)
	}
	return w.Flush()
}
