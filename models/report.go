package models

// ReportHeader is the fixed 11-column order of every audit report.
var ReportHeader = []string{
	"Hotel", "FAQ", "Status", "Kind", "#", "Question", "Answer", "Reason",
	"Meta title", "Meta description", "Schema",
}

// AuditRow is one flattened report record. Summary rows carry meta/schema
// columns and leave the issue columns empty; detail rows do the opposite.
// Detail rows are always written immediately after their hotel's summary row.
type AuditRow struct {
	Hotel           string
	FaqURL          string
	Status          string
	Kind            string
	Index           string
	Question        string
	Answer          string
	Reason          string
	MetaTitle       string
	MetaDescription string
	SchemaSummary   string
}

// Strings flattens the row in report column order.
func (r AuditRow) Strings() []string {
	return []string{
		r.Hotel, r.FaqURL, r.Status, r.Kind, r.Index, r.Question, r.Answer,
		r.Reason, r.MetaTitle, r.MetaDescription, r.SchemaSummary,
	}
}

// AuditSummary holds the run totals returned by the audit job.
type AuditSummary struct {
	HotelsProcessed    int
	HotelsWithFaq      int
	HotelsWithProblems int
}

// AuditInsights holds the computed analytics over a finished audit report.
type AuditInsights struct {
	HotelsProcessed    int
	HotelsWithFaq      int
	HotelsWithProblems int
	TotalIssues        int
	IssuesByKind       map[string]int
	SchemaOkHotels     int
	WorstHotels        []HotelIssueCount
}

// HotelIssueCount pairs a hotel name with its issue count.
type HotelIssueCount struct {
	Hotel  string
	Issues int
}
