// Package audit orchestrates the FAQ web-audit pipeline: discovery, fetch,
// extraction, validation, SEO inspection, and report compilation.
package audit

import (
	"context"
	"fmt"
	"strings"

	"faq-auditor/extract"
	"faq-auditor/fetcher"
	"faq-auditor/models"
	"faq-auditor/seo"
	"faq-auditor/storage"
	"faq-auditor/utils"
	"faq-auditor/validate"
)

// reportTab is the workbook tab the audit writes into.
const reportTab = "Audit"

// maxCellLen truncates question/answer text in detail rows for readability.
const maxCellLen = 500

// HotelSource discovers the hotels to audit.
type HotelSource interface {
	CollectHotels(ctx context.Context, countryURL string) ([]models.HotelItem, error)
}

// SemanticChecker reviews Q/A batches with the model.
type SemanticChecker interface {
	Check(ctx context.Context, groups []models.Group, allQAs []models.QA) []models.Issue
}

// Job runs one full audit: hotels are processed strictly sequentially and
// every per-hotel failure becomes report content, never a crash.
type Job struct {
	source   HotelSource
	fetch    fetcher.PageFetcher
	rules    *validate.Rules
	semantic SemanticChecker
	sheets   storage.SheetStore
	writers  []storage.ReportWriter
	logger   *utils.Logger
}

// NewJob wires the audit job from its collaborators. writers may be empty;
// the workbook write is the one mandatory output.
func NewJob(source HotelSource, fetch fetcher.PageFetcher, rules *validate.Rules,
	semantic SemanticChecker, sheets storage.SheetStore, writers []storage.ReportWriter,
	logger *utils.Logger) *Job {
	return &Job{
		source:   source,
		fetch:    fetch,
		rules:    rules,
		semantic: semantic,
		sheets:   sheets,
		writers:  writers,
		logger:   logger,
	}
}

// Run audits every hotel reachable from the country page and writes the
// report. It returns the compiled rows alongside the run totals.
func (j *Job) Run(ctx context.Context, countryURL, reportTitle string) (models.AuditSummary, []models.AuditRow, error) {
	var summary models.AuditSummary

	hotels, err := j.source.CollectHotels(ctx, countryURL)
	if err != nil {
		return summary, nil, fmt.Errorf("audit: %w", err)
	}
	summary.HotelsProcessed = len(hotels)

	// Failing to create the output workbook is the one catastrophic error.
	bookID, err := j.sheets.Create(reportTitle)
	if err != nil {
		return summary, nil, fmt.Errorf("audit: create workbook: %w", err)
	}
	tabs, err := j.sheets.ListTabs(bookID)
	if err != nil {
		return summary, nil, fmt.Errorf("audit: list tabs: %w", err)
	}
	if err := j.sheets.DuplicateTab(bookID, tabs[0], reportTab); err != nil {
		return summary, nil, fmt.Errorf("audit: duplicate tab: %w", err)
	}
	j.logger.Info("[audit] Report workbook: %s", bookID)

	var rows []models.AuditRow
	for _, h := range hotels {
		hotelRows, hasFaq, hasProblems := j.auditHotel(ctx, h)
		rows = append(rows, hotelRows...)
		if hasFaq {
			summary.HotelsWithFaq++
		}
		if hasProblems {
			summary.HotelsWithProblems++
		}
	}

	grid := [][]string{models.ReportHeader}
	for _, r := range rows {
		grid = append(grid, r.Strings())
	}
	if err := j.sheets.WriteValues(bookID, reportTab, "A1", grid); err != nil {
		return summary, rows, fmt.Errorf("audit: write report: %w", err)
	}
	if err := j.sheets.ApplyFAQFormat(bookID, reportTab); err != nil {
		j.logger.Warn("[audit] format tab: %v", err)
	}

	for _, w := range j.writers {
		if err := w.WriteReport(rows); err != nil {
			j.logger.Error("[audit] report writer failed: %v", err)
		}
	}

	return summary, rows, nil
}

// auditHotel produces the report rows for one hotel: exactly one summary
// row, followed by one detail row per issue.
func (j *Job) auditHotel(ctx context.Context, h models.HotelItem) (rows []models.AuditRow, hasFaq, hasProblems bool) {
	if h.FaqURL == "" {
		return []models.AuditRow{{Hotel: h.Name, Status: "FAQ page not found"}}, false, false
	}
	hasFaq = true

	res, err := j.fetch.Fetch(ctx, h.FaqURL)
	if err != nil {
		j.logger.Warn("[audit] %s: fetch failed: %v", h.Name, err)
		return []models.AuditRow{{
			Hotel: h.Name, FaqURL: h.FaqURL,
			Status: fmt.Sprintf("FAQ fetch failed (%v)", err),
		}}, hasFaq, false
	}

	// Pairs harvested from the live DOM win over static extraction.
	var groups []models.Group
	if len(res.QAs) > 0 {
		groups = []models.Group{{Label: "FAQ (DOM-accessible)", Items: res.QAs}}
	} else {
		groups, err = extract.Extract(res.HTML)
		if err != nil {
			j.logger.Warn("[audit] %s: extract failed: %v", h.Name, err)
		}
	}

	allQAs := extract.Flatten(groups)
	if len(allQAs) == 0 {
		return []models.AuditRow{{
			Hotel: h.Name, FaqURL: h.FaqURL,
			Status: "No Q/A items found in page",
		}}, hasFaq, false
	}

	seoRes, err := seo.Check(res.HTML)
	if err != nil {
		j.logger.Warn("[audit] %s: seo check failed: %v", h.Name, err)
	}
	schemaSummary := summarizeSchema(seoRes)

	issues := j.rules.Check(allQAs)
	issues = append(issues, j.semantic.Check(ctx, groups, allQAs)...)
	issues = append(issues, seoRes.Issues...)

	summaryRow := models.AuditRow{
		Hotel:           h.Name,
		FaqURL:          h.FaqURL,
		MetaTitle:       seoRes.MetaTitle,
		MetaDescription: seoRes.MetaDescription,
		SchemaSummary:   schemaSummary,
	}

	if len(issues) == 0 {
		summaryRow.Status = fmt.Sprintf("OK — %d items checked", len(allQAs))
		return []models.AuditRow{summaryRow}, hasFaq, false
	}

	summaryRow.Status = fmt.Sprintf("Found %d issues — %d items checked", len(issues), len(allQAs))
	rows = append(rows, summaryRow)
	for _, it := range issues {
		rows = append(rows, detailRow(h, it))
	}
	return rows, hasFaq, true
}

// detailRow flattens one issue under its hotel. Meta/schema columns stay
// empty on detail rows. The # column is 1-based, so page-level issues
// (index -1) render as "0".
func detailRow(h models.HotelItem, it models.Issue) models.AuditRow {
	idxStr := fmt.Sprintf("%d", it.Index+1)
	return models.AuditRow{
		Hotel:    h.Name,
		FaqURL:   h.FaqURL,
		Status:   "Issue",
		Kind:     it.Kind,
		Index:    idxStr,
		Question: truncate(extract.NormalizeSpace(it.Q), maxCellLen),
		Answer:   truncate(extract.NormalizeSpace(it.A), maxCellLen),
		Reason:   strings.TrimPrefix(it.Reason, " — "),
	}
}

// summarizeSchema classifies the structured-data picture for the report's
// Schema column.
func summarizeSchema(res models.SEOResult) string {
	schemaIssues := 0
	for _, it := range res.Issues {
		if strings.HasPrefix(it.Reason, "[schema]") {
			schemaIssues++
		}
	}
	switch {
	case len(res.SchemaQAs) == 0:
		return "No schema Q/A"
	case schemaIssues > 0:
		return fmt.Sprintf("%d schema issues — %d Qs", schemaIssues, len(res.SchemaQAs))
	default:
		return fmt.Sprintf("OK — %d schema Qs", len(res.SchemaQAs))
	}
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
