package commands

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "salesforecast",
	Short: "Sales volume forecast service",
	Long: `Sales volume forecast service

Serves monthly, quarterly and annual sales volume forecasts over HTTP and
manages the model artifacts behind them.

Usage:
  salesforecast [command]

Examples:
  salesforecast serve
  salesforecast serve --port 9000 --profile cpu
  salesforecast publish --dir model
  salesforecast inspect model/monthly_sales_model.json`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and runs it
func Execute() error {
	return rootCmd.Execute()
}
