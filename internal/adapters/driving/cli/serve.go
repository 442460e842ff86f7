package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/voicecal/internal/adapters/driven/config"
	"github.com/custodia-labs/voicecal/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/voicecal/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the speech-to-calendar HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := appConfig.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Credentials and the listen address are fixed for the process lifetime;
	// the reload only picks up log verbosity.
	go func() {
		err := config.Watch(ctx, appConfig.Path, func(cfg *config.Config) {
			logger.SetVerbose(cfg.Verbose || verbose)
		})
		if err != nil {
			logger.Error("config watch stopped", err)
		}
	}()

	api := httpapi.NewServer(pipelineService)
	server := &http.Server{
		Addr:              appConfig.Listen,
		Handler:           api.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", err)
		}
	}()

	logger.Info("listening", "addr", appConfig.Listen)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
