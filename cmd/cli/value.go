package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pricecomparator/market-service/internal/valueunit"
)

var (
	valueCategory string
	valueProduct  string
	valueOutput   string
)

// valueCmd represents the value command
var valueCmd = &cobra.Command{
	Use:   "value",
	Short: "Rank products by price per base unit",
	Long: `Rank products by their discount-adjusted price per base unit (per
kilogram, liter, or piece) so differently sized packages can be compared.
Products with an unrecognized unit sort last and keep their raw price.

With --product, compare that one product across every store selling it and
name the store with the best value.`,
	Example: `  market-service value --category lactate --data ./data
  market-service value --product P001 --data ./data
  market-service value --data ./data --output json`,
	RunE: runValue,
}

func init() {
	rootCmd.AddCommand(valueCmd)

	valueCmd.Flags().StringVar(&valueCategory, "category", "", "Filter by category")
	valueCmd.Flags().StringVar(&valueProduct, "product", "", "Compare one product ID across stores")
	valueCmd.Flags().StringVar(&valueOutput, "output", "table", "Output format: table or json")
}

func runValue(cmd *cobra.Command, args []string) error {
	date, err := queryDate()
	if err != nil {
		return err
	}
	repo, err := loadRepository()
	if err != nil {
		return err
	}

	comparator := valueunit.NewComparator(repo)

	if valueProduct != "" {
		value, found := comparator.ByProduct(valueProduct, date)
		if !found {
			return fmt.Errorf("product %s not found in any store", valueProduct)
		}
		if valueOutput == "json" {
			return json.NewEncoder(os.Stdout).Encode(value)
		}
		if err := printEntries(value.Entries); err != nil {
			return err
		}
		fmt.Printf("Best value: %s (%.2f per standard unit)\n", value.BestStore, value.PerStore[value.BestStore])
		return nil
	}

	entries := comparator.Rank(valueCategory, date)
	if valueOutput == "json" {
		return json.NewEncoder(os.Stdout).Encode(entries)
	}
	return printEntries(entries)
}

func printEntries(entries []valueunit.ValueEntry) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STORE\tPRODUCT\tPACKAGE\tPRICE\tPER UNIT")
	for _, e := range entries {
		perUnit := fmt.Sprintf("%.2f/%s", e.PricePerUnit, e.BaseUnit)
		if !e.Comparable {
			perUnit = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%g %s\t%.2f\t%s\n", e.Store, e.Name, e.Quantity, e.Unit, e.Price, perUnit)
	}
	return w.Flush()
}
