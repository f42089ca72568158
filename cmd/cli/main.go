package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pricecomparator/market-service/config"
	"github.com/pricecomparator/market-service/internal/loader"
	"github.com/pricecomparator/market-service/internal/market"
)

var (
	cfgFile  string
	dataDir  string
	dateFlag string
	cfg      *config.Config
	logger   *zerolog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "market-service",
	Short: "Market Service CLI - grocery price comparison tool",
	Long: `A CLI tool for querying grocery market data: split a shopping basket
across stores for the lowest total, reconstruct product price histories,
rank products by price per unit, and inspect discounts.`,
	PersistentPreRunE: persistentPreRun,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml or ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory with store CSV/XLSX files (overrides config)")
	rootCmd.PersistentFlags().StringVar(&dateFlag, "date", "", "query date as YYYY-MM-DD (default today)")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
	}
}

// persistentPreRun runs before each command and initializes dependencies
func persistentPreRun(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}
	logger = initLogger()
	return nil
}

// queryDate resolves the --date flag, defaulting to today.
func queryDate() (market.Date, error) {
	if dateFlag == "" {
		return market.Today(), nil
	}
	return market.ParseDate(dateFlag)
}

// loadRepository loads the configured data directory into memory.
func loadRepository() (*market.Repository, error) {
	dir := dataDir
	if dir == "" && cfg != nil {
		dir = cfg.Data.Dir
	}
	if dir == "" {
		return nil, fmt.Errorf("no data directory configured, pass --data")
	}

	concurrency := 4
	if cfg != nil && cfg.Data.Concurrency > 0 {
		concurrency = cfg.Data.Concurrency
	}

	l := loader.New(loader.WithConcurrency(concurrency))
	return l.LoadDirectory(context.Background(), dir)
}

func initLogger() *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level := zerolog.WarnLevel
	if cfg != nil && cfg.Logging.Level != "" {
		if parsedLevel, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
			level = parsedLevel
		}
	}

	// Always use console format for CLI
	var output io.Writer
	noColor := false
	if cfg != nil {
		noColor = cfg.Logging.NoColor
	}
	output = zerolog.ConsoleWriter{Out: os.Stderr, NoColor: noColor}

	log := zerolog.New(output).Level(level).With().Timestamp().Logger()
	return &log
}

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
