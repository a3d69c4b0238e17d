package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/AnikS22/Scribe-checker/internal/dictionary"
	apperrors "github.com/AnikS22/Scribe-checker/internal/errors"
	"github.com/AnikS22/Scribe-checker/internal/exitcode"
	"github.com/AnikS22/Scribe-checker/internal/genai"
	"github.com/AnikS22/Scribe-checker/internal/logging"
	"github.com/AnikS22/Scribe-checker/internal/pipeline"
	"github.com/AnikS22/Scribe-checker/internal/redact"
)

var transcriptPath string

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Run one transcript through the pipeline and print the report JSON",
	RunE:  runProcess,
}

func init() {
	processCmd.Flags().StringVar(&transcriptPath, "file", "", "Path to transcript text file (required)")
	_ = processCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if err := loadConfig(); err != nil {
		log.Error().Err(err).Msg("config load failed")
		os.Exit(exitcode.UsageError)
	}
	if err := cfg.Validate(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	transcript, err := os.ReadFile(transcriptPath)
	if err != nil {
		log.Error().Err(err).Msg("transcript not readable")
		os.Exit(exitcode.InputError)
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

	pl := pipeline.New(&cfg, genai.NewClient(&cfg, log), dictionary.NewMatcher(dict), scrub, log)

	report, err := pl.Run(ctx, string(transcript))
	if err != nil {
		var se *pipeline.StageError
		if errors.As(err, &se) {
			log.Error().Err(se.Err).Str("stage", se.Stage).Msg("pipeline failed")
		} else {
			log.Error().Err(err).Msg("pipeline failed")
		}
		if errors.Is(err, apperrors.ErrBackendUnavailable) {
			os.Exit(exitcode.BackendError)
		}
		os.Exit(exitcode.PipelineError)
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
