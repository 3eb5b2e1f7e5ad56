// Package prompts builds the instruction text sent to the model. The rest
// of the system treats these as opaque string producers.
package prompts

import (
	"encoding/json"
	"fmt"
	"strings"

	"faq-auditor/models"
)

// SemanticReviewSystem is the system instruction for the batched FAQ review.
// The model must flag semantic mismatches and clear spelling/grammar errors
// only, and answer with strict JSON using batch-local zero-based indices.
func SemanticReviewSystem() string {
	return strings.Join([]string{
		"You are a strict FAQ validator.",
		"Given a list of Q&A items scraped from a hotel's FAQ page (raw DOM content),",
		"Identify material issues that a typical end-user would notice in the Q&A pairs ONLY (ignore the rest of the page).",
		"",
		"Flag BOTH:",
		"- semantic mismatch (answer doesn't address the question), and",
		"- obvious spelling/grammar issues (clear, non-stylistic errors).",
		"",
		"For each issue, return ONLY valid JSON with entries shaped as:",
		`{"issues":[{"index":number,"reason":string}]}`,
		"The 'index' is 0-based within this batch.",
		"",
		"Prefix 'reason' with a category tag so parsing stays simple, e.g.:",
		"- [mismatch] answer talks about parking but the question is about check-in",
		"- [spelling] accomodation -> accommodation",
		"- [grammar] missing verb in the sentence",
	}, " ")
}

// SemanticReviewUser renders one batch of pairs as a numbered list.
func SemanticReviewUser(qas []models.QA) string {
	var b strings.Builder
	for i, qa := range qas {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "%d. Q: %s\nA: %s", i+1, qa.Q, qa.A)
	}
	return fmt.Sprintf("List:\n%s\n\nReturn ONLY JSON as specified.", b.String())
}

// SheetItem is one FAQ row read from a workbook tab, addressed by its
// 1-based sheet row.
type SheetItem struct {
	RowIndex1Based int    `json:"rowIndex1Based"`
	Category       string `json:"category"`
	Question       string `json:"question"`
	Answer         string `json:"answer"`
	Frequency      string `json:"frequency"`
}

// FlagAndFix builds the re-validation prompt: flag only when the problem is
// unambiguous, and supply a publication-ready replacement answer per flag.
func FlagAndFix(items []SheetItem) string {
	input, _ := json.MarshalIndent(map[string][]SheetItem{"items": items}, "", "  ")

	return `Hotel FAQ Validation (Flag only when CLEAR) + Provide a concise fix.

You receive an array of rows with: rowIndex1Based, category, question, answer, frequency.

FLAG ONLY if one of these is DEFINITELY true:
- MISMATCH — answer doesn't provide the specifics the question requests.
- TOO_SHORT — answer is extremely short/unhelpful for a factual FAQ (about < 5 words).
- GRAMMAR — obvious grammar/spelling error that would be unacceptable publicly.
- CONTRADICTS — answer contradicts the question, itself, or other info in the row.
NOTE - between different categories there's a blank line; do NOT flag as missing question and answer.

When NOT SURE → do NOT flag. No nitpicking. Keep it minimal.

If flagged, provide a FIX (replacement answer) following ALL rules:
- Tone: professional, welcoming, luxury-hospitality; third person.
- Do NOT repeat the hotel name.
- For yes/no questions: start with "Yes, …", "No, …", or "Currently, …".
- Otherwise: start with a clear factual statement.
- 10–16 words; clear, decisive; no links, no marketing fluff; publication-ready English.

OUTPUT (STRICT JSON, no markdown):
{"rows":[
  {"rowIndex1Based": <number>,
   "issue": "-",
   "fix": ""}
]}

Return ONE object per input item, SAME order, SAME rowIndex1Based.

INPUT
` + string(input)
}
