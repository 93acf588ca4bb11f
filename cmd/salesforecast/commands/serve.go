package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	forecaster "github.com/electrotech/salesforecaster"
	"github.com/electrotech/salesforecaster/cadence"
	"github.com/electrotech/salesforecaster/internal/api"
	"github.com/electrotech/salesforecaster/internal/api/handlers"
	"github.com/electrotech/salesforecaster/internal/config"
	"github.com/electrotech/salesforecaster/internal/logger"
	"github.com/electrotech/salesforecaster/registry"
	"github.com/electrotech/salesforecaster/schema"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the forecast API server",
	Long: `Starts the forecast API server.

The feature schema and the model of every cadence are loaded once at startup.
Artifacts that cannot be loaded leave their cadence unavailable; the server
keeps running and answers 503 for it.

Endpoints:
  GET  /health      - Loaded schema and models
  POST /predict     - Forecast sales volumes
  GET  /dashboard   - Forecast chart

Example:
  salesforecast serve
  salesforecast serve --port 9000
  salesforecast serve --profile mem`,
	RunE: runServe,
}

var (
	servePort    string
	serveProfile string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&servePort, "port", "", "server port, overrides PORT")
	serveCmd.Flags().StringVar(&serveProfile, "profile", "", "write a pprof profile while serving (cpu|mem)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if servePort != "" {
		cfg.Port = servePort
	}

	log := logger.New(cfg)
	slog.SetDefault(log.Slog())

	switch serveProfile {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		return fmt.Errorf("unknown profile %q, expected cpu or mem", serveProfile)
	}

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing forecast server")

	s, path, err := schema.Load(schema.DefaultCandidates(cfg.SchemaPath)...)
	if err != nil {
		log.WithError(err).Error("Feature schema not loaded")
	} else {
		log.WithFields(map[string]interface{}{
			"path":    path,
			"columns": s.Len(),
		}).Info("Feature schema loaded")
	}

	reg := registry.New()
	loader := registry.NewLoader()
	loader.Timeout = cfg.DownloadTimeout
	loader.LoadAll(cmd.Context(), reg, modelSources(cfg))

	f := forecaster.New(s, reg)
	h := handlers.NewForecastHandler(f, log)
	router := api.NewRouter(h, log, api.RouterOptions{
		RateLimit: cfg.RateLimitRPS,
		Burst:     cfg.RateLimitBurst,
	})
	server := api.New(cfg, log, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}

// modelSources resolves where each cadence is loaded from. Without a configured path the
// conventional artifact in the model directory is tried.
func modelSources(cfg *config.Config) []registry.Source {
	sources := make([]registry.Source, 0, len(cadence.All()))
	for _, c := range cadence.All() {
		mc := cfg.Models[c]
		src := registry.Source{Cadence: c, Path: mc.Path, URL: mc.URL}
		if src.Path == "" && cfg.Store.ModelDir != "" {
			src.Path = filepath.Join(cfg.Store.ModelDir, registry.ArtifactFileName(c))
		}
		sources = append(sources, src)
	}
	return sources
}
