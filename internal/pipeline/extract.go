package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	apperrors "github.com/AnikS22/Scribe-checker/internal/errors"
	"github.com/AnikS22/Scribe-checker/internal/genai"
	"github.com/AnikS22/Scribe-checker/internal/normalize"
)

// extract converts transcript text into a fully-shaped clinical record via
// one low-temperature backend call. A response that is not parseable JSON
// fails the whole request; missing fields are defaulted leniently and logged,
// since the backend is non-deterministic and cannot be fully controlled.
func (p *Pipeline) extract(ctx context.Context, transcript string) (*normalize.RecordResult, error) {
	start := time.Now()

	task := genai.Task{
		Name:         StageExtract,
		Instructions: extractionInstructions,
		Temperature:  extractionTemperature,
	}
	text, err := p.gen.Generate(ctx, task, transcript)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("%w: extraction output is not a JSON object: %v",
			apperrors.ErrMalformedResponse, err)
	}

	res := normalize.Record(raw)
	if len(res.Defaulted) > 0 {
		p.log.Warn().
			Strs("fields", res.Defaulted).
			Str("stage", StageExtract).
			Msg("backend omitted record fields, defaulted")
	}
	if res.PainParse == normalize.PainFallback {
		p.log.Warn().
			Str("stage", StageExtract).
			Str("raw", res.Record.PainRating.Location).
			Msg("pain rating unparseable, kept raw text as location")
	}

	p.log.Info().
		Str("stage", StageExtract).
		Int("defaulted_fields", len(res.Defaulted)).
		Dur("duration", time.Since(start)).
		Msg("extraction complete")
	return res, nil
}
