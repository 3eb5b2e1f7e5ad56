package models

// QA is a single question/answer pair — the atomic unit of FAQ content.
// Both sides are whitespace-normalized; pairs have no identity beyond
// their (q, a) content.
type QA struct {
	Q string `json:"q"`
	A string `json:"a"`
}

// HotelItem is one discovered hotel property. FaqURL is empty when the
// property has no reachable FAQ page.
type HotelItem struct {
	Name   string
	FaqURL string
}

// Group is a named cluster of Q/A pairs sharing a page section. Groups
// exist only to size semantic-validation batches; they are never persisted.
type Group struct {
	Label string
	Items []QA
}

// Issue kinds. Rule issues come from deterministic checks (including SEO
// checks); GPT issues come from the model review.
const (
	KindRule = "rule"
	KindGPT  = "gpt"
)

// PageLevelIndex marks an issue that is not tied to one Q/A pair.
const PageLevelIndex = -1

// Issue is a single finding against a hotel's FAQ page. Index is the
// pair's position within the per-hotel list, or PageLevelIndex for
// page-level findings.
type Issue struct {
	Kind   string
	Q      string
	A      string
	Reason string
	Index  int
}

// PageIssue builds a rule issue that is not bound to a specific pair.
func PageIssue(reason string) Issue {
	return Issue{Kind: KindRule, Reason: reason, Index: PageLevelIndex}
}

// SEOResult is the outcome of the meta + FAQ schema inspection of a page.
// SchemaOk is true only when a FAQPage object exists, it yielded at least
// one valid pair, and no [schema] issue was raised.
type SEOResult struct {
	Issues          []Issue
	SchemaQAs       []QA
	MetaTitle       string
	MetaDescription string
	SchemaOk        bool
}
