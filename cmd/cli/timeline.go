package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pricecomparator/market-service/internal/timeline"
)

var (
	timelineCategory string
	timelineBrand    string
	timelineStore    string
	timelineOutput   string
)

// timelineCmd represents the timeline command
var timelineCmd = &cobra.Command{
	Use:   "timeline <product-id>",
	Short: "Reconstruct the price history of a product",
	Long: `Reconstruct a product's per-store price history up to the query date,
merging catalog snapshot changes with discount windows. Products are matched
across stores by name, so the history covers every store carrying the item.`,
	Example: `  market-service timeline P001 --data ./data --date 2025-05-20
  market-service timeline P001 --data ./data --store Lidl --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runTimeline,
}

func init() {
	rootCmd.AddCommand(timelineCmd)

	timelineCmd.Flags().StringVar(&timelineCategory, "category", "", "Filter by category")
	timelineCmd.Flags().StringVar(&timelineBrand, "brand", "", "Filter by brand")
	timelineCmd.Flags().StringVar(&timelineStore, "store", "", "Filter by store")
	timelineCmd.Flags().StringVar(&timelineOutput, "output", "table", "Output format: table or json")
}

func runTimeline(cmd *cobra.Command, args []string) error {
	date, err := queryDate()
	if err != nil {
		return err
	}
	repo, err := loadRepository()
	if err != nil {
		return err
	}

	r := timeline.NewReconstructor(repo)
	result, err := r.Timeline(args[0], date, timeline.Filters{
		Category: timelineCategory,
		Brand:    timelineBrand,
		Store:    timelineStore,
	})
	if err != nil {
		return err
	}

	if timelineOutput == "json" {
		return json.NewEncoder(os.Stdout).Encode(result)
	}

	fmt.Printf("%s\n", result.ProductName)
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, store := range result.Stores {
		for _, point := range result.Points[store] {
			fmt.Fprintf(w, "%s\t%s\t%.2f\n", store, point.Date, point.Price)
		}
	}
	return w.Flush()
}
