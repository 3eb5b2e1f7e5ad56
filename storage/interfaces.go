package storage

import "faq-auditor/models"

// ReportWriter is the interface any audit-report backend must satisfy.
type ReportWriter interface {
	WriteReport(rows []models.AuditRow) error
	Close() error
}

// SheetStore is the narrow spreadsheet contract the jobs consume: named
// workbooks of titled tabs holding 2D string grids. Writes have idempotent
// overwrite semantics; rows are 1-based as presented to callers.
type SheetStore interface {
	// Create makes a named workbook with one default tab and returns its id.
	Create(title string) (string, error)
	// ListTabs returns the workbook's tab titles.
	ListTabs(id string) ([]string, error)
	// ResolveTab returns the backend identifier for a tab title.
	ResolveTab(id, title string) (string, error)
	// DuplicateTab copies an existing tab under a new title.
	DuplicateTab(id, srcTitle, newTitle string) error
	// ReadValues returns the tab's full grid.
	ReadValues(id, tab string) ([][]string, error)
	// WriteValues overlays a grid onto the tab starting at an A1-style cell.
	WriteValues(id, tab, startCell string, values [][]string) error
	// ApplyFAQFormat applies the fixed FAQ visual template to a tab.
	ApplyFAQFormat(id, tab string) error
}
