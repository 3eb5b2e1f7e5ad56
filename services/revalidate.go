package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"faq-auditor/llm"
	"faq-auditor/prompts"
	"faq-auditor/storage"
	"faq-auditor/utils"
)

// Generated FAQ tabs hold Category | Question | Answer | Frequency in
// columns A–D; re-validation writes Issue and Fix into G and H.
const (
	colCategory  = 0
	colQuestion  = 1
	colAnswer    = 2
	colFrequency = 3
	issueFixCol  = "G"
)

// RevalidateJob re-checks previously generated FAQ sheets: the model flags
// rows only when a problem is unambiguous and supplies a replacement
// answer, which are written back next to the original columns.
type RevalidateJob struct {
	agent  llm.Agent
	sheets storage.SheetStore
	pool   *utils.WorkerPool
	logger *utils.Logger
	model  string
}

// NewRevalidateJob wires the job. Workbooks are processed through a rate
// limited worker pool.
func NewRevalidateJob(agent llm.Agent, sheets storage.SheetStore, logger *utils.Logger,
	model string, maxConcurrency, rateLimitMs int) *RevalidateJob {
	return &RevalidateJob{
		agent:  agent,
		sheets: sheets,
		pool:   utils.NewWorkerPool(maxConcurrency, rateLimitMs),
		logger: logger,
		model:  model,
	}
}

// Run re-validates every tab of every workbook. Per-workbook failures are
// logged and do not stop the others.
func (j *RevalidateJob) Run(ctx context.Context, workbookIDs []string) {
	for _, id := range workbookIDs {
		id := id
		j.pool.Submit(func() {
			if err := j.revalidateWorkbook(ctx, id); err != nil {
				j.logger.Error("[revalidate] workbook %s: %v", id, err)
			}
		})
	}
	j.pool.Wait()
}

func (j *RevalidateJob) revalidateWorkbook(ctx context.Context, id string) error {
	tabs, err := j.sheets.ListTabs(id)
	if err != nil {
		return err
	}
	for _, tab := range tabs {
		if err := j.revalidateTab(ctx, id, tab); err != nil {
			return fmt.Errorf("tab %s: %w", tab, err)
		}
	}
	return nil
}

func (j *RevalidateJob) revalidateTab(ctx context.Context, id, tab string) error {
	grid, err := j.sheets.ReadValues(id, tab)
	if err != nil {
		return err
	}

	var items []prompts.SheetItem
	for r := 1; r < len(grid); r++ {
		row := grid[r]
		item := prompts.SheetItem{RowIndex1Based: r + 1}
		if len(row) > colCategory {
			item.Category = row[colCategory]
		}
		if len(row) > colQuestion {
			item.Question = strings.TrimSpace(row[colQuestion])
		}
		if len(row) > colAnswer {
			item.Answer = strings.TrimSpace(row[colAnswer])
		}
		if len(row) > colFrequency {
			item.Frequency = row[colFrequency]
		}
		// Blank spacer rows between categories are not FAQ content.
		if item.Question == "" && item.Answer == "" {
			continue
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil
	}

	raw, err := j.agent.Submit(ctx, prompts.FlagAndFix(items), "", j.model)
	if err != nil {
		return fmt.Errorf("model call: %w", err)
	}

	// Unlike the audit's review path, malformed output here is a hard
	// error: the job mutates existing sheets and must not guess.
	findings, err := parseFlagAndFix(raw)
	if err != nil {
		return err
	}

	flagged := 0
	for _, f := range findings {
		if f.Issue == "-" || f.Issue == "" {
			continue
		}
		values := [][]string{{f.Issue, f.Fix}}
		cell := fmt.Sprintf("%s%d", issueFixCol, f.RowIndex1Based)
		if err := j.sheets.WriteValues(id, tab, cell, values); err != nil {
			return err
		}
		flagged++
	}

	j.logger.Info("[revalidate] %s/%s — %d rows checked, %d flagged", id, tab, len(items), flagged)
	return nil
}

type flagAndFixRow struct {
	RowIndex1Based *int    `json:"rowIndex1Based"`
	Issue          string  `json:"issue"`
	Fix            *string `json:"fix"`
}

type parsedFinding struct {
	RowIndex1Based int
	Issue          string
	Fix            string
}

// parseFlagAndFix parses the strict-JSON model response, slicing from the
// first "{" to the last "}" to tolerate stray prose around the object.
func parseFlagAndFix(text string) ([]parsedFinding, error) {
	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	slice := text
	if first >= 0 && last > first {
		slice = text[first : last+1]
	}

	var obj struct {
		Rows []flagAndFixRow `json:"rows"`
	}
	if err := json.Unmarshal([]byte(slice), &obj); err != nil {
		return nil, fmt.Errorf("model did not return valid JSON for validation output: %w", err)
	}
	if obj.Rows == nil {
		return nil, fmt.Errorf("validation JSON must contain a 'rows' array")
	}

	out := make([]parsedFinding, 0, len(obj.Rows))
	for _, r := range obj.Rows {
		if r.RowIndex1Based == nil {
			return nil, fmt.Errorf("rowIndex1Based must be a number")
		}
		if r.Fix == nil {
			return nil, fmt.Errorf("fix must be a string")
		}
		out = append(out, parsedFinding{RowIndex1Based: *r.RowIndex1Based, Issue: r.Issue, Fix: *r.Fix})
	}
	return out, nil
}
