// Command truthlens serves the TruthLens credibility analysis API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/factchecker/truthlens/internal/analysis"
	"github.com/factchecker/truthlens/internal/api"
	"github.com/factchecker/truthlens/internal/config"
	"github.com/factchecker/truthlens/internal/database"
	"github.com/factchecker/truthlens/internal/logging"
	"github.com/factchecker/truthlens/internal/remote"
	"github.com/factchecker/truthlens/internal/scoring"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath     string
		generateConfig string
	)

	cmd := &cobra.Command{
		Use:           "truthlens",
		Short:         "Credibility analysis API for text, images and video",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if generateConfig != "" {
				if err := config.GenerateSample(generateConfig); err != nil {
					return fmt.Errorf("failed to generate config: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Sample configuration written to %s\n", generateConfig)
				return nil
			}
			err := run(configPath)
			if err != nil {
				log.Error().Err(err).Msg("Server failed")
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	cmd.Flags().StringVar(&generateConfig, "generate-config", "", "write a sample config file to this path and exit")
	return cmd
}

func run(configPath string) error {
	// A missing .env file is fine; variables may come from the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logging.Setup(cfg.Logging, os.Stderr)

	store, err := database.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer store.Close()

	if err := store.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	providers, err := remote.NewProviders(cfg.Remote)
	if err != nil {
		return fmt.Errorf("failed to create remote providers: %w", err)
	}

	svc := analysis.NewService(cfg, store, scoring.NewScorer(nil), providers)
	router := api.NewRouter(cfg, svc)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Int("port", cfg.Server.Port).
			Bool("use_real_api", cfg.Remote.UseRealAPI).
			Str("text_provider", cfg.Remote.TextProvider).
			Str("database", cfg.Database.Driver).
			Msg("TruthLens API server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-quit:
	}

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	log.Info().Msg("Server shutdown complete")
	return nil
}
