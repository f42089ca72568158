package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pricecomparator/market-service/internal/alerts"
)

var (
	alertProduct string
	alertTarget  float64
	alertOutput  string
)

// alertsCmd represents the alerts command group
var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Work with price alerts",
}

var alertsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check whether a product can be bought at or below a target price",
	Long: `Check a single price alert against the data directory. The best
discount-adjusted offer across all stores is compared with the target price.`,
	Example: `  market-service alerts check --product P001 --target 8.50 --data ./data
  market-service alerts check --product P001 --target 8.50 --date 2025-05-12 --output json`,
	RunE: runAlertsCheck,
}

func init() {
	rootCmd.AddCommand(alertsCmd)
	alertsCmd.AddCommand(alertsCheckCmd)

	alertsCheckCmd.Flags().StringVar(&alertProduct, "product", "", "Product ID to watch")
	alertsCheckCmd.Flags().Float64Var(&alertTarget, "target", 0, "Target price")
	alertsCheckCmd.Flags().StringVar(&alertOutput, "output", "table", "Output format: table or json")
	alertsCheckCmd.MarkFlagRequired("product")
	alertsCheckCmd.MarkFlagRequired("target")
}

func runAlertsCheck(cmd *cobra.Command, args []string) error {
	if alertTarget <= 0 {
		return fmt.Errorf("target price must be positive")
	}
	date, err := queryDate()
	if err != nil {
		return err
	}
	repo, err := loadRepository()
	if err != nil {
		return err
	}

	service := alerts.NewService(repo, nil)
	hit, ok := service.CheckOne(alerts.Alert{ProductID: alertProduct, TargetPrice: alertTarget}, date)

	if alertOutput == "json" {
		return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
			"triggered": ok,
			"result":    hit,
		})
	}

	if !ok {
		fmt.Printf("No store sells %s at or below %.2f on %s\n", alertProduct, alertTarget, date)
		return nil
	}
	fmt.Printf("%s (%s) available at %s for %.2f", hit.Name, alertProduct, hit.Offer.Store, hit.Offer.Price)
	if hit.Offer.Percent > 0 {
		fmt.Printf(" (%d%% off %.2f)", hit.Offer.Percent, hit.Offer.ListPrice)
	}
	fmt.Println()
	return nil
}
