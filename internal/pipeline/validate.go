package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AnikS22/Scribe-checker/internal/genai"
	"github.com/AnikS22/Scribe-checker/internal/model"
)

// lcdPayload is the loose wire shape of one validation verdict.
type lcdPayload struct {
	CPTCode      string   `json:"cpt_code"`
	LCDCode      string   `json:"lcd_code"`
	Requirements []string `json:"requirements"`
	Status       string   `json:"status"`
}

// validateLCD evaluates the coding stage's candidates against payer policy.
// The input is exactly the coding stage's list; this stage never sees the
// extraction stage's opinion of billing codes. Shape mismatches degrade to an
// empty verdict list under the same permissive policy as the coding stage.
func (p *Pipeline) validateLCD(ctx context.Context, candidates []model.CandidateCode) ([]model.LCDValidation, error) {
	start := time.Now()

	payload, err := json.Marshal(map[string]any{"recommended_cpt_codes": candidates})
	if err != nil {
		return nil, fmt.Errorf("marshal candidates: %w", err)
	}

	task := genai.Task{
		Name:         StageValidate,
		Instructions: lcdInstructions,
		AgentID:      p.cfg.LCDAgentID,
	}
	text, err := p.gen.Generate(ctx, task, string(payload))
	if err != nil {
		return nil, err
	}

	var out struct {
		LCDValidation []lcdPayload `json:"lcd_validation"`
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		p.log.Warn().Str("stage", StageValidate).Err(err).
			Msg("lcd response not the expected shape, substituting empty list")
		return nil, nil
	}

	results := make([]model.LCDValidation, 0, len(out.LCDValidation))
	for _, v := range out.LCDValidation {
		if v.CPTCode == "" {
			continue
		}
		status := model.LCDStatus(v.Status)
		if !model.KnownLCDStatus(status) {
			status = model.LCDNotEvaluated
		}
		reqs := v.Requirements
		if reqs == nil {
			reqs = []string{}
		}
		results = append(results, model.LCDValidation{
			CPTCode:      v.CPTCode,
			LCDCode:      v.LCDCode,
			Requirements: reqs,
			Status:       status,
		})
	}

	p.log.Info().
		Str("stage", StageValidate).
		Int("verdicts", len(results)).
		Dur("duration", time.Since(start)).
		Msg("lcd validation complete")
	return results, nil
}
