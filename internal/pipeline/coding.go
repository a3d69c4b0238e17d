package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/AnikS22/Scribe-checker/internal/config"
	"github.com/AnikS22/Scribe-checker/internal/dictionary"
	"github.com/AnikS22/Scribe-checker/internal/genai"
	"github.com/AnikS22/Scribe-checker/internal/model"
)

// codingResult is the coding stage's contribution to the final report.
type codingResult struct {
	ICDCodes   []string
	Candidates []model.CandidateCode
}

// code derives diagnosis and billing codes from the record. In model mode
// the ICD and CPT calls run concurrently and both take the full record; a
// failure in either aborts the stage (no partial credit). In dictionary mode
// the CPT candidates come from the code dictionary matches instead of a
// second backend call.
func (p *Pipeline) code(ctx context.Context, rec *model.ClinicalRecord, match dictionary.MatchResult) (*codingResult, error) {
	start := time.Now()

	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}

	res := &codingResult{}

	if p.cfg.CodingMode == config.CodingDictionary {
		icd, err := p.deriveICD(ctx, payload)
		if err != nil {
			return nil, err
		}
		res.ICDCodes = icd
		res.Candidates = candidatesFromMatches(match.Matches)
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			icd, err := p.deriveICD(gctx, payload)
			if err != nil {
				return err
			}
			res.ICDCodes = icd
			return nil
		})
		g.Go(func() error {
			cands, err := p.deriveCPT(gctx, payload)
			if err != nil {
				return err
			}
			res.Candidates = cands
			return nil
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	for _, c := range res.Candidates {
		if c.RequiresLCD && c.LCDCode == "" {
			p.log.Warn().
				Str("stage", StageCode).
				Str("cpt", c.Code).
				Msg("candidate requires LCD but backend sent no lcd_code")
		}
	}

	p.log.Info().
		Str("stage", StageCode).
		Str("mode", p.cfg.CodingMode).
		Int("icd_codes", len(res.ICDCodes)).
		Int("cpt_candidates", len(res.Candidates)).
		Dur("duration", time.Since(start)).
		Msg("coding complete")
	return res, nil
}

// deriveICD asks the backend for diagnosis codes. A response without the
// expected icd_codes array degrades to an empty list rather than failing:
// poor output from this stage costs only this stage's contribution.
func (p *Pipeline) deriveICD(ctx context.Context, record []byte) ([]string, error) {
	task := genai.Task{
		Name:         "derive_icd",
		Instructions: icdInstructions,
		AgentID:      p.cfg.ICDAgentID,
	}
	text, err := p.gen.Generate(ctx, task, string(record))
	if err != nil {
		return nil, err
	}

	var out struct {
		ICDCodes []string `json:"icd_codes"`
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		p.log.Warn().Str("stage", StageCode).Err(err).
			Msg("icd response not the expected shape, substituting empty list")
		return nil, nil
	}
	return out.ICDCodes, nil
}

// cptPayload is the loose wire shape of one recommended code.
type cptPayload struct {
	Code            string   `json:"code"`
	Description     string   `json:"description"`
	RequiresLCD     bool     `json:"requires_lcd"`
	LCDCode         string   `json:"lcd_code"`
	LCDRequirements []string `json:"lcd_requirements"`
	LCDStatus       string   `json:"lcd_status"`
}

// deriveCPT asks the backend for billing candidates, with the same
// permissive empty-substitution policy as deriveICD.
func (p *Pipeline) deriveCPT(ctx context.Context, record []byte) ([]model.CandidateCode, error) {
	task := genai.Task{
		Name:         "derive_cpt",
		Instructions: cptInstructions,
		AgentID:      p.cfg.CPTAgentID,
	}
	text, err := p.gen.Generate(ctx, task, string(record))
	if err != nil {
		return nil, err
	}

	var out struct {
		Recommended []cptPayload `json:"recommended_cpt_codes"`
	}
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		p.log.Warn().Str("stage", StageCode).Err(err).
			Msg("cpt response not the expected shape, substituting empty list")
		return nil, nil
	}

	cands := make([]model.CandidateCode, 0, len(out.Recommended))
	for _, c := range out.Recommended {
		if c.Code == "" {
			continue
		}
		status := model.LCDStatus(c.LCDStatus)
		if !model.KnownLCDStatus(status) {
			status = model.LCDNotEvaluated
		}
		reqs := c.LCDRequirements
		if reqs == nil {
			reqs = []string{}
		}
		cands = append(cands, model.CandidateCode{
			Code:            c.Code,
			Description:     c.Description,
			RequiresLCD:     c.RequiresLCD,
			LCDCode:         c.LCDCode,
			LCDRequirements: reqs,
			LCDStatus:       status,
		})
	}
	return cands, nil
}

// candidatesFromMatches builds billing candidates from dictionary matches,
// one per distinct CPT code. Missing evidence fields become the candidate's
// outstanding LCD requirements.
func candidatesFromMatches(matches []dictionary.ProcedureMatch) []model.CandidateCode {
	seen := make(map[string]bool)
	cands := make([]model.CandidateCode, 0, len(matches))
	for _, m := range matches {
		if seen[m.CPT] {
			continue
		}
		seen[m.CPT] = true
		reqs := m.MissingFields
		if reqs == nil {
			reqs = []string{}
		}
		cands = append(cands, model.CandidateCode{
			Code:            m.CPT,
			Description:     m.Phrase,
			RequiresLCD:     m.LCD != "",
			LCDCode:         m.LCD,
			LCDRequirements: reqs,
			LCDStatus:       model.LCDNotEvaluated,
		})
	}
	return cands
}
