package commands

import (
	"fmt"

	"github.com/electrotech/salesforecaster/internal/config"
	"github.com/electrotech/salesforecaster/internal/logger"
	"github.com/electrotech/salesforecaster/internal/publish"
	"github.com/spf13/cobra"
)

// publishCmd represents the publish command
var publishCmd = &cobra.Command{
	Use:   "publish [artifact...]",
	Short: "Upload model artifacts to the model store",
	Long: `Uploads model artifacts and the feature schema to the model store.

Each named artifact is read from <dir>/<name>_sales_model.json and uploaded
with HTTP PUT to MODEL_STORE_URL/<name>_sales_model.json, followed by the
feature schema. Without arguments the annual, monthly, quarterly and weekly
artifacts are published. A failing upload does not stop the others.

Example:
  salesforecast publish
  salesforecast publish monthly quarterly --dir ./model`,
	RunE: runPublish,
}

var (
	publishDir string
)

func init() {
	rootCmd.AddCommand(publishCmd)

	publishCmd.Flags().StringVar(&publishDir, "dir", "", "model directory, overrides MODEL_DIR")
}

func runPublish(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if publishDir != "" {
		cfg.Store.ModelDir = publishDir
	}

	log := logger.New(cfg)

	p := publish.New(cfg.Store.URL, cfg.Store.Token, log)
	p.Timeout = cfg.Store.Timeout

	arts := publish.Artifacts(cfg.Store.ModelDir, args...)
	if err := p.Publish(cmd.Context(), arts); err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Published %d artifacts to %s\n", len(arts), cfg.Store.URL)
	return nil
}
