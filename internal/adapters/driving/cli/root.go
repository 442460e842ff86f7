// Package cli wires the cobra command surface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/voicecal/internal/adapters/driven/config"
	"github.com/custodia-labs/voicecal/internal/core/ports/driven"
	"github.com/custodia-labs/voicecal/internal/core/ports/driving"
	"github.com/custodia-labs/voicecal/internal/logger"
)

var (
	// version is set by goreleaser ldflags.
	version = "dev"

	// verbose enables debug logging.
	verbose bool

	// Injected service implementations for CLI commands.
	pipelineService driving.VoiceEventService
	tokenProvider   driven.TokenProvider
	appConfig       *config.Config
)

// Services holds the implementations the commands run against.
type Services struct {
	Pipeline driving.VoiceEventService
	Tokens   driven.TokenProvider
	Config   *config.Config
}

// SetServices injects service implementations for CLI commands.
func SetServices(s *Services) {
	if s == nil {
		return
	}
	pipelineService = s.Pipeline
	tokenProvider = s.Tokens
	appConfig = s.Config
}

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "voicecal",
	Short: "Turn spoken reminders into calendar events",
	Long: `Voicecal is a single-user HTTP service that transcribes a spoken
utterance, extracts a title, colour and start time from it, and creates a
matching event in your Google Calendar.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string for the CLI.
func SetVersion(v string) {
	version = v
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose debug output")

	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		if verbose {
			logger.SetVerbose(true)
		}
		return nil
	}
}
