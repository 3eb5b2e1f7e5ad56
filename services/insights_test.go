package services

import (
	"testing"

	"faq-auditor/models"
	"faq-auditor/utils"
)

func TestGenerateInsights(t *testing.T) {
	rows := []models.AuditRow{
		{Hotel: "alpha", Status: "OK — 5 items checked", SchemaSummary: "OK — 5 schema Qs"},
		{Hotel: "bravo", Status: "Found 3 issues — 4 items checked", SchemaSummary: "No schema Q/A"},
		{Hotel: "bravo", Status: "Issue", Kind: models.KindRule},
		{Hotel: "bravo", Status: "Issue", Kind: models.KindRule},
		{Hotel: "bravo", Status: "Issue", Kind: models.KindGPT},
		{Hotel: "charlie", Status: "Found 1 issues — 2 items checked", SchemaSummary: "OK — 2 schema Qs"},
		{Hotel: "charlie", Status: "Issue", Kind: "seo"},
		{Hotel: "delta", Status: "FAQ page not found"},
	}
	summary := models.AuditSummary{HotelsProcessed: 4, HotelsWithFaq: 3, HotelsWithProblems: 2}

	svc := NewInsightService(utils.NewLogger())
	got := svc.Generate(rows, summary)

	if got.HotelsProcessed != 4 || got.HotelsWithFaq != 3 || got.HotelsWithProblems != 2 {
		t.Errorf("totals = %+v", got)
	}
	if got.TotalIssues != 4 {
		t.Errorf("TotalIssues = %d", got.TotalIssues)
	}
	if got.IssuesByKind[models.KindRule] != 2 || got.IssuesByKind[models.KindGPT] != 1 || got.IssuesByKind["seo"] != 1 {
		t.Errorf("IssuesByKind = %v", got.IssuesByKind)
	}
	if got.SchemaOkHotels != 2 {
		t.Errorf("SchemaOkHotels = %d", got.SchemaOkHotels)
	}
	if len(got.WorstHotels) != 2 {
		t.Fatalf("WorstHotels = %+v", got.WorstHotels)
	}
	if got.WorstHotels[0].Hotel != "bravo" || got.WorstHotels[0].Issues != 3 {
		t.Errorf("worst hotel = %+v", got.WorstHotels[0])
	}
	if got.WorstHotels[1].Hotel != "charlie" || got.WorstHotels[1].Issues != 1 {
		t.Errorf("second worst = %+v", got.WorstHotels[1])
	}
}

func TestGenerateInsightsNoIssues(t *testing.T) {
	rows := []models.AuditRow{
		{Hotel: "alpha", Status: "OK — 5 items checked", SchemaSummary: "OK — 5 schema Qs"},
	}
	svc := NewInsightService(utils.NewLogger())
	got := svc.Generate(rows, models.AuditSummary{HotelsProcessed: 1, HotelsWithFaq: 1})

	if got.TotalIssues != 0 || len(got.WorstHotels) != 0 {
		t.Errorf("insights = %+v", got)
	}
	if got.SchemaOkHotels != 1 {
		t.Errorf("SchemaOkHotels = %d", got.SchemaOkHotels)
	}
}
