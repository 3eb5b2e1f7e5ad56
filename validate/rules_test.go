package validate

import (
	"reflect"
	"testing"

	"faq-auditor/models"
)

func reasons(issues []models.Issue) []string {
	out := make([]string, len(issues))
	for i, it := range issues {
		out[i] = it.Reason
	}
	return out
}

func TestCheckEmptyAndShortAnswers(t *testing.T) {
	r := NewRules()

	// An empty answer trips both the empty and the too-short rule; the
	// checks are independent.
	issues := r.Check([]models.QA{{Q: "Is there a pool?", A: "   "}})
	want := []string{"Empty answer", "Answer too short"}
	if !reflect.DeepEqual(reasons(issues), want) {
		t.Errorf("empty answer reasons = %v, want %v", reasons(issues), want)
	}

	issues = r.Check([]models.QA{{Q: "Is there a pool?", A: "Yes."}})
	want = []string{"Answer too short"}
	if !reflect.DeepEqual(reasons(issues), want) {
		t.Errorf("short answer reasons = %v, want %v", reasons(issues), want)
	}

	issues = r.Check([]models.QA{{Q: "Is there a pool?", A: "Yes, open 7 AM to 10 PM."}})
	if len(issues) != 0 {
		t.Errorf("healthy answer flagged: %v", reasons(issues))
	}

	// Characters, not bytes: "Schö" is 4 runes in 5 bytes and stays short;
	// "Schön" is 5 runes and passes.
	issues = r.Check([]models.QA{{Q: "Wie?", A: "Schö"}})
	if !reflect.DeepEqual(reasons(issues), []string{"Answer too short"}) {
		t.Errorf("4-rune accented answer reasons = %v", reasons(issues))
	}
	issues = r.Check([]models.QA{{Q: "Wie?", A: "Schön"}})
	if len(issues) != 0 {
		t.Errorf("5-rune accented answer flagged: %v", reasons(issues))
	}
}

func TestCheckPlaceholderAnswer(t *testing.T) {
	r := NewRules()
	tests := []struct {
		answer  string
		flagged bool
	}{
		{"Lorem ipsum dolor sit amet.", true},
		{"TBD, check back later.", true},
		{"This section is coming soon.", true},
		{"Details to be determined by the front desk.", true},
		{"Breakfast is served from 7 AM.", false},
	}
	for _, tt := range tests {
		issues := r.Check([]models.QA{{Q: "When is breakfast?", A: tt.answer}})
		got := false
		for _, it := range issues {
			if it.Reason == "Placeholder answer" {
				got = true
			}
		}
		if got != tt.flagged {
			t.Errorf("answer %q: placeholder flag = %v, want %v", tt.answer, got, tt.flagged)
		}
	}
}

func TestCheckTopicMismatch(t *testing.T) {
	r := NewRules()

	issues := r.Check([]models.QA{{
		Q: "Is the minibar included?",
		A: "Check-in is possible after 15:00 at the reception.",
	}})
	if len(issues) != 1 || issues[0].Reason != "Answer seems about check-in, not minibar" {
		t.Errorf("minibar question: %v", reasons(issues))
	}

	issues = r.Check([]models.QA{{
		Q: "What time is check-in?",
		A: "The minibar offers a selection of drinks and snacks.",
	}})
	if len(issues) != 1 || issues[0].Reason != "Answer seems about minibar, not check-in" {
		t.Errorf("check-in question: %v", reasons(issues))
	}

	issues = r.Check([]models.QA{{
		Q: "Is the minibar included?",
		A: "The minibar is restocked daily and billed to your room.",
	}})
	for _, it := range issues {
		if it.Reason == "Answer seems about check-in, not minibar" {
			t.Errorf("on-topic minibar answer flagged")
		}
	}
}

func TestCheckRepeatedAnswers(t *testing.T) {
	r := NewRules()
	boiler := "Please contact the reception for details."

	// Two identical answers stay under the threshold.
	issues := r.Check([]models.QA{
		{Q: "Q1?", A: boiler},
		{Q: "Q2?", A: boiler},
	})
	for _, it := range issues {
		if it.Reason == "Same answer repeated for many questions" {
			t.Fatalf("two repeats should not be flagged")
		}
	}

	// Three identical answers flag every member of the cluster, after the
	// primary checks.
	issues = r.Check([]models.QA{
		{Q: "Q1?", A: boiler},
		{Q: "Q2?", A: "A different real answer here."},
		{Q: "Q3?", A: boiler},
		{Q: "Q4?", A: boiler},
	})
	var repeated []int
	for _, it := range issues {
		if it.Reason == "Same answer repeated for many questions" {
			repeated = append(repeated, it.Index)
		}
	}
	if !reflect.DeepEqual(repeated, []int{0, 2, 3}) {
		t.Errorf("repeated-answer indices = %v, want [0 2 3]", repeated)
	}
}

func TestCheckRepeatedAnswersCaseInsensitivePrefix(t *testing.T) {
	r := NewRules()
	issues := r.Check([]models.QA{
		{Q: "Q1?", A: "Please ask the front desk."},
		{Q: "Q2?", A: "PLEASE ASK THE FRONT DESK."},
		{Q: "Q3?", A: "  please ask the front desk.  "},
	})
	count := 0
	for _, it := range issues {
		if it.Reason == "Same answer repeated for many questions" {
			count++
		}
	}
	if count != 3 {
		t.Errorf("case/space variants should share a key, flags = %d", count)
	}
}

func TestCheckIdempotent(t *testing.T) {
	r := NewRules()
	qas := []models.QA{
		{Q: "Is the minibar included?", A: "Check-in opens after 15:00."},
		{Q: "Q?", A: "TBD"},
		{Q: "Q1?", A: "Same."}, {Q: "Q2?", A: "Same."}, {Q: "Q3?", A: "Same."},
	}
	first := r.Check(qas)
	second := r.Check(qas)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Check is not idempotent:\n%+v\n%+v", first, second)
	}
	if len(first) == 0 {
		t.Fatal("expected issues")
	}
	for _, it := range first {
		if it.Kind != models.KindRule {
			t.Errorf("issue kind = %q, want %q", it.Kind, models.KindRule)
		}
	}
}

func TestNewRulesWithCustomTopicRules(t *testing.T) {
	r := NewRulesWith(nil)
	issues := r.Check([]models.QA{{
		Q: "Is the minibar included?",
		A: "Check-in is possible after 15:00 at the reception.",
	}})
	if len(issues) != 0 {
		t.Errorf("no topic rules configured but got %v", reasons(issues))
	}
}
