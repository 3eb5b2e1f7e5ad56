package validate

import (
	"context"
	"encoding/json"

	"faq-auditor/llm"
	"faq-auditor/models"
	"faq-auditor/prompts"
	"faq-auditor/utils"
)

// inferenceErrorReason tags pairs whose review batch failed outright, so
// model failures stay visible in the report instead of vanishing.
const inferenceErrorReason = "inference_error"

// Semantic batches Q/A pairs into model-review requests, bounded by a
// per-hotel call budget.
type Semantic struct {
	agent    llm.Agent
	model    string
	maxCalls int
	logger   *utils.Logger
}

// NewSemantic creates a semantic validator. maxCalls is the per-hotel
// model-call budget; callers are expected to pass the clamped config value.
func NewSemantic(agent llm.Agent, model string, maxCalls int, logger *utils.Logger) *Semantic {
	if maxCalls < 1 {
		maxCalls = 1
	}
	return &Semantic{agent: agent, model: model, maxCalls: maxCalls, logger: logger}
}

type batch struct {
	items     []models.QA
	baseIndex int
}

// Check reviews all pairs within the call budget. With a budget of 1 every
// pair goes in a single request; otherwise labeled groups consume one call
// each and any uncovered remainder is merged into the last batch (or added
// as one more, budget permitting). With no groups, pairs are split into
// even-sized chunks bounded by the budget.
func (s *Semantic) Check(ctx context.Context, groups []models.Group, allQAs []models.QA) []models.Issue {
	if len(allQAs) == 0 {
		return nil
	}
	if s.maxCalls <= 1 {
		return s.checkBatch(ctx, allQAs, 0)
	}

	var batches []batch
	if len(groups) > 0 {
		used := 0
		base := 0
		for _, g := range groups {
			if len(g.Items) == 0 {
				continue
			}
			if used >= s.maxCalls {
				break
			}
			batches = append(batches, batch{items: g.Items, baseIndex: base})
			base += len(g.Items)
			used++
		}
		covered := 0
		for _, b := range batches {
			covered += len(b.items)
		}
		if remaining := allQAs[covered:]; len(remaining) > 0 {
			if len(batches) < s.maxCalls {
				batches = append(batches, batch{items: remaining, baseIndex: covered})
			} else {
				last := &batches[len(batches)-1]
				last.items = append(last.items, remaining...)
			}
		}
	} else {
		size := (len(allQAs) + s.maxCalls - 1) / s.maxCalls
		for start := 0; start < len(allQAs); start += size {
			end := start + size
			if end > len(allQAs) {
				end = len(allQAs)
			}
			batches = append(batches, batch{items: allQAs[start:end], baseIndex: start})
		}
	}

	var out []models.Issue
	for _, b := range batches {
		out = append(out, s.checkBatch(ctx, b.items, b.baseIndex)...)
	}
	return out
}

// reviewFinding is the shape the model is instructed to return per issue.
// Index is a pointer so absent fields are distinguishable from zero.
type reviewFinding struct {
	Index  *int   `json:"index"`
	Reason string `json:"reason"`
}

type reviewResponse struct {
	Issues []reviewFinding `json:"issues"`
}

// checkBatch reviews one batch. A failed call degrades into one synthetic
// issue per pair; malformed model output degrades into no issues at all.
func (s *Semantic) checkBatch(ctx context.Context, qas []models.QA, baseIndex int) []models.Issue {
	if len(qas) == 0 {
		return nil
	}

	raw, err := s.agent.Submit(ctx, prompts.SemanticReviewUser(qas), prompts.SemanticReviewSystem(), s.model)
	if err != nil {
		s.logger.Warn("[semantic] batch at %d failed: %v — reporting %d pairs as %s",
			baseIndex, err, len(qas), inferenceErrorReason)
		out := make([]models.Issue, 0, len(qas))
		for i, qa := range qas {
			out = append(out, models.Issue{
				Kind: models.KindGPT, Q: qa.Q, A: qa.A,
				Reason: inferenceErrorReason,
				Index:  baseIndex + i,
			})
		}
		return out
	}

	var parsed reviewResponse
	if !extractJSONObject(raw, &parsed) || parsed.Issues == nil {
		// Silent degradation: unparseable review output counts as no
		// findings for this batch. Logged so the gap is traceable.
		s.logger.Warn("[semantic] batch at %d returned unparseable output — treating as no issues", baseIndex)
		return nil
	}

	var out []models.Issue
	for _, f := range parsed.Issues {
		if f.Index == nil || *f.Index < 0 || *f.Index >= len(qas) {
			continue
		}
		reason := f.Reason
		if reason == "" {
			reason = "mismatch"
		}
		qa := qas[*f.Index]
		out = append(out, models.Issue{
			Kind: models.KindGPT, Q: qa.Q, A: qa.A,
			Reason: reason,
			Index:  baseIndex + *f.Index,
		})
	}
	return out
}

// extractJSONObject finds the first balanced {...} block in s that
// unmarshals into v. Model text is untrusted; anything that does not parse
// is reported as false, never an error.
func extractJSONObject(s string, v interface{}) bool {
	for start := 0; start < len(s); start++ {
		if s[start] != '{' {
			continue
		}
		end := balancedEnd(s, start)
		if end < 0 {
			return false
		}
		if json.Unmarshal([]byte(s[start:end+1]), v) == nil {
			return true
		}
		start = end
	}
	return false
}

// balancedEnd returns the index of the brace closing the block opened at
// start, or -1. String literals and escapes are honored so braces inside
// JSON strings do not miscount.
func balancedEnd(s string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
