package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AnikS22/Scribe-checker/internal/api"
	"github.com/AnikS22/Scribe-checker/internal/dictionary"
	"github.com/AnikS22/Scribe-checker/internal/exitcode"
	"github.com/AnikS22/Scribe-checker/internal/genai"
	"github.com/AnikS22/Scribe-checker/internal/logging"
	"github.com/AnikS22/Scribe-checker/internal/pipeline"
	"github.com/AnikS22/Scribe-checker/internal/redact"
	"github.com/AnikS22/Scribe-checker/internal/transcribe"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP gateway",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&cfg.ListenAddr, "listen", envDefault("", "SCRIBE_LISTEN_ADDR"), "Listen address (default :8000)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)

	if err := loadConfig(); err != nil {
		log.Error().Err(err).Msg("config load failed")
		os.Exit(exitcode.UsageError)
	}
	if err := cfg.ValidateServe(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	dict, source, err := dictionary.Load(cfg.DictionaryPath)
	if err != nil {
		log.Warn().Err(err).Msg("dictionary load failed, using built-in default table")
	}
	log.Info().Str("source", string(source)).Int("entries", len(dict)).Msg("code dictionary loaded")

	var scrub *redact.Scrubber
	if cfg.RedactPII {
		scrub = redact.NewScrubber()
	}

	gen := genai.NewClient(&cfg, log)
	matcher := dictionary.NewMatcher(dict)
	pl := pipeline.New(&cfg, gen, matcher, scrub, log)
	stt := transcribe.NewClient(&cfg, log)

	handlers := api.NewHandlers(pl, stt, log)
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.NewRouter(&cfg, handlers, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	done := make(chan struct{})
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		log.Info().Msg("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
		close(done)
	}()

	log.Info().Str("addr", cfg.ListenAddr).Str("coding_mode", cfg.CodingMode).Msg("listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("server failed")
		os.Exit(exitcode.ServerError)
	}
	<-done
	return nil
}
