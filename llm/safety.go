package llm

import (
	"sync"

	"faq-auditor/utils"
)

// SafetyLimits caps API usage for one run.
type SafetyLimits struct {
	MaxCalls  int
	MaxTokens int
	DelayMs   int
}

var safetyModes = map[string]SafetyLimits{
	"development": {MaxCalls: 75, MaxTokens: 2000, DelayMs: 1500},
	"default":     {MaxCalls: 20, MaxTokens: 1500, DelayMs: 2000},
	"production":  {MaxCalls: 15, MaxTokens: 1000, DelayMs: 3000},
}

// SafetyManager tracks model-call and token spend against a per-run budget.
// It is safe for concurrent use.
type SafetyManager struct {
	mu          sync.Mutex
	limits      SafetyLimits
	calls       int
	totalTokens int
	logger      *utils.Logger
}

// NewSafetyManager creates a manager for the given mode
// (development/default/production). Unknown modes fall back to "default".
func NewSafetyManager(mode string, logger *utils.Logger) *SafetyManager {
	limits, ok := safetyModes[mode]
	if !ok {
		limits = safetyModes["default"]
	}
	logger.Info("[safety] Mode %s — max calls: %d, max tokens/call: %d", mode, limits.MaxCalls, limits.MaxTokens)
	return &SafetyManager{limits: limits, logger: logger}
}

// CanMakeCall reports whether another API call fits within the budget.
func (s *SafetyManager) CanMakeCall() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.calls >= s.limits.MaxCalls {
		s.logger.Warn("[safety] API call limit reached (%d)", s.limits.MaxCalls)
		return false
	}
	if float64(s.calls) >= float64(s.limits.MaxCalls)*0.8 {
		s.logger.Warn("[safety] %d/%d calls used", s.calls, s.limits.MaxCalls)
	}
	return true
}

// RecordCall counts one completed call and its token usage.
func (s *SafetyManager) RecordCall(tokens int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.totalTokens += tokens
}

// Limits returns a copy of the configured limits.
func (s *SafetyManager) Limits() SafetyLimits {
	return s.limits
}

// Status returns calls made and tokens spent so far.
func (s *SafetyManager) Status() (calls, tokens int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls, s.totalTokens
}
