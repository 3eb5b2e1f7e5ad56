package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"faq-auditor/models"
)

// placeholderRe matches filler text that should never ship on a live page.
var placeholderRe = regexp.MustCompile(`(?i)lorem|tbd|coming soon|placeholder|to be determined`)

// repeatThreshold is the number of pairs sharing an answer prefix before
// they are all flagged as boilerplate.
const repeatThreshold = 3

// answerPrefixLen bounds the normalized answer prefix used for
// repeated-answer detection.
const answerPrefixLen = 200

// TopicRule flags a pair when the question is about one topic but the
// answer's keywords indicate another.
type TopicRule struct {
	QuestionRe *regexp.Regexp
	AnswerRe   *regexp.Regexp
	Reason     string
}

// DefaultTopicRules covers the minibar/check-in confusion pair in both
// directions.
var DefaultTopicRules = []TopicRule{
	{
		QuestionRe: regexp.MustCompile(`(?i)mini\s*bar|mini-?fridge|fridge|minibar`),
		AnswerRe:   regexp.MustCompile(`(?i)check\s*in|check\s*out|arrival|after\s*\d{1,2}[:.]\d{2}`),
		Reason:     "Answer seems about check-in, not minibar",
	},
	{
		QuestionRe: regexp.MustCompile(`(?i)check\s*in|check\s*out|arrival|departure`),
		AnswerRe:   regexp.MustCompile(`(?i)minibar|mini\s*bar|fridge|drinks|beverage`),
		Reason:     "Answer seems about minibar, not check-in",
	},
}

// Rules is the deterministic Q/A validator. The zero value is not usable;
// construct with NewRules.
type Rules struct {
	topicRules []TopicRule
}

// NewRules creates a validator with the default topic-mismatch rules.
func NewRules() *Rules {
	return &Rules{topicRules: DefaultTopicRules}
}

// NewRulesWith creates a validator with a custom topic rule set.
func NewRulesWith(topicRules []TopicRule) *Rules {
	return &Rules{topicRules: topicRules}
}

// Check runs every rule over every pair. Checks are independent; issue
// order follows input order, except repeated-answer flags which are
// appended after the primary checks. Running Check twice over the same
// input yields identical results.
func (r *Rules) Check(qas []models.QA) []models.Issue {
	var issues []models.Issue
	answerCounts := make(map[string]int)

	for idx, qa := range qas {
		aNorm := strings.TrimSpace(qa.A)

		if aNorm == "" {
			issues = append(issues, models.Issue{Kind: models.KindRule, Q: qa.Q, A: qa.A, Reason: "Empty answer", Index: idx})
		}
		if utf8.RuneCountInString(aNorm) < 5 {
			issues = append(issues, models.Issue{Kind: models.KindRule, Q: qa.Q, A: qa.A, Reason: "Answer too short", Index: idx})
		}
		if placeholderRe.MatchString(aNorm) {
			issues = append(issues, models.Issue{Kind: models.KindRule, Q: qa.Q, A: qa.A, Reason: "Placeholder answer", Index: idx})
		}

		for _, tr := range r.topicRules {
			if tr.QuestionRe.MatchString(qa.Q) && tr.AnswerRe.MatchString(aNorm) {
				issues = append(issues, models.Issue{Kind: models.KindRule, Q: qa.Q, A: qa.A, Reason: tr.Reason, Index: idx})
			}
		}

		answerCounts[answerKey(qa.A)]++
	}

	for idx, qa := range qas {
		if answerCounts[answerKey(qa.A)] >= repeatThreshold {
			issues = append(issues, models.Issue{
				Kind: models.KindRule, Q: qa.Q, A: qa.A,
				Reason: "Same answer repeated for many questions",
				Index:  idx,
			})
		}
	}

	return issues
}

// answerKey is the case-insensitive answer prefix used to spot
// copy-paste boilerplate.
func answerKey(a string) string {
	key := strings.ToLower(strings.TrimSpace(a))
	if len(key) > answerPrefixLen {
		key = key[:answerPrefixLen]
	}
	return key
}
