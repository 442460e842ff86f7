package main

import (
	"os"

	"github.com/custodia-labs/voicecal/internal/adapters/driven/ai"
	"github.com/custodia-labs/voicecal/internal/adapters/driven/codec"
	"github.com/custodia-labs/voicecal/internal/adapters/driven/config"
	"github.com/custodia-labs/voicecal/internal/adapters/driven/google"
	"github.com/custodia-labs/voicecal/internal/adapters/driven/speech"
	"github.com/custodia-labs/voicecal/internal/adapters/driving/cli"
	"github.com/custodia-labs/voicecal/internal/core/services"
	"github.com/custodia-labs/voicecal/internal/logger"
)

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	cli.SetVersion(version)
	logger.Setup()

	cfg, err := config.Load(os.Getenv("VOICECAL_CONFIG"))
	if err != nil {
		logger.Error("load config", err)
		return 1
	}
	logger.SetVerbose(cfg.Verbose)

	loc, err := cfg.Location()
	if err != nil {
		logger.Error("resolve operating timezone", err)
		return 1
	}

	tokens := google.NewTokenProvider(
		cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RefreshToken, "",
	)

	pipeline := services.NewPipeline(services.Deps{
		Transcoder:  codec.New(cfg.FFmpegPath),
		Transcriber: speech.NewRecognizer(tokens, cfg.Language),
		Extractor:   ai.NewExtractor(cfg.OpenAI.APIKey, cfg.OpenAI.Model),
		Tokens:      tokens,
		Calendar:    google.NewBackend(cfg.CalendarID),
	}, cfg.AuthPassword, loc)

	cli.SetServices(&cli.Services{
		Pipeline: pipeline,
		Tokens:   tokens,
		Config:   cfg,
	})

	if err := cli.Execute(); err != nil {
		logger.Error("command failed", err)
		return 1
	}
	return 0
}
