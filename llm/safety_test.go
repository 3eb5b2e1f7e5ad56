package llm

import (
	"testing"

	"faq-auditor/utils"
)

func TestSafetyModes(t *testing.T) {
	tests := []struct {
		mode      string
		maxCalls  int
		maxTokens int
	}{
		{"development", 75, 2000},
		{"default", 20, 1500},
		{"production", 15, 1000},
		{"nonsense", 20, 1500},
	}
	for _, tt := range tests {
		s := NewSafetyManager(tt.mode, utils.NewLogger())
		if got := s.Limits(); got.MaxCalls != tt.maxCalls || got.MaxTokens != tt.maxTokens {
			t.Errorf("mode %q limits = %+v", tt.mode, got)
		}
	}
}

func TestSafetyBudgetEnforced(t *testing.T) {
	s := NewSafetyManager("production", utils.NewLogger())

	for i := 0; i < 15; i++ {
		if !s.CanMakeCall() {
			t.Fatalf("call %d refused under budget", i)
		}
		s.RecordCall(100)
	}
	if s.CanMakeCall() {
		t.Error("16th call allowed past the budget")
	}

	calls, tokens := s.Status()
	if calls != 15 || tokens != 1500 {
		t.Errorf("Status = (%d, %d)", calls, tokens)
	}
}
