// Package pipeline sequences the extraction, coding, and validation stages
// over a visit transcript and merges their outputs into one report.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/AnikS22/Scribe-checker/internal/config"
	"github.com/AnikS22/Scribe-checker/internal/dictionary"
	apperrors "github.com/AnikS22/Scribe-checker/internal/errors"
	"github.com/AnikS22/Scribe-checker/internal/genai"
	"github.com/AnikS22/Scribe-checker/internal/model"
	"github.com/AnikS22/Scribe-checker/internal/redact"
)

// Pipeline runs the full transcript-to-report sequence. One Pipeline is
// built at startup and shared across requests; each Run is independent and
// holds its own intermediate state.
type Pipeline struct {
	gen     genai.Caller
	matcher *dictionary.Matcher
	scrub   *redact.Scrubber // nil disables redaction
	cfg     *config.Config
	log     zerolog.Logger
}

// New wires a Pipeline from its collaborators.
func New(cfg *config.Config, gen genai.Caller, matcher *dictionary.Matcher, scrub *redact.Scrubber, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		gen:     gen,
		matcher: matcher,
		scrub:   scrub,
		cfg:     cfg,
		log:     log,
	}
}

// Run executes extract → code → validate → merge for one transcript.
// Stages are strictly sequential; a stage failure aborts the run with a
// StageError naming the stage — never a partial report. The validation stage
// is skipped entirely when coding produced no candidates.
func (p *Pipeline) Run(ctx context.Context, transcript string) (*model.FinalReport, error) {
	totalStart := time.Now()

	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return nil, fmt.Errorf("%w: empty transcript", apperrors.ErrValidation)
	}

	prompt := transcript
	if p.scrub != nil {
		prompt = p.scrub.Redact(transcript)
	}

	// Stage 1: extraction
	rr, err := p.extract(ctx, prompt)
	if err != nil {
		return nil, &StageError{Stage: StageExtract, Err: err}
	}
	rec := rr.Record

	// Dictionary matching is pure and local; it informs the coding stage in
	// dictionary mode and surfaces evidence warnings either way.
	match := p.matcher.Match(rec)
	if len(match.Warnings) > 0 {
		p.log.Info().
			Strs("warnings", match.Warnings).
			Msg("dictionary match found procedures with missing evidence")
	}

	// Stage 2: coding
	coding, err := p.code(ctx, rec, match)
	if err != nil {
		return nil, &StageError{Stage: StageCode, Err: err}
	}

	// Stage 3: validation, only over the coding stage's candidates
	var verdicts []model.LCDValidation
	if len(coding.Candidates) > 0 {
		verdicts, err = p.validateLCD(ctx, coding.Candidates)
		if err != nil {
			return nil, &StageError{Stage: StageValidate, Err: err}
		}
	} else {
		p.log.Info().Str("stage", StageValidate).Msg("no candidates, skipping lcd validation")
	}

	// Stage 4: merge
	report := merge(rr, prompt, coding, verdicts)

	p.log.Info().
		Int("icd_codes", len(report.ICDCodes)).
		Int("cpt_candidates", len(report.RecommendedCPTCodes)).
		Int("lcd_verdicts", len(report.LCDValidation)).
		Dur("total_duration", time.Since(totalStart)).
		Msg("pipeline complete")

	return report, nil
}
