package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

const defaultTab = "Sheet1"

var unsafePathRe = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// Workbook is a local SheetStore: each workbook is a directory, each tab a
// CSV file inside it. Formatting templates are recorded as JSON sidecars
// so an importer can reproduce them.
type Workbook struct {
	root string
}

// NewWorkbook creates a workbook store rooted at dir.
func NewWorkbook(dir string) (*Workbook, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("workbook: create root: %w", err)
	}
	return &Workbook{root: dir}, nil
}

// Create makes a named workbook with one empty default tab and returns its id.
func (w *Workbook) Create(title string) (string, error) {
	id := unsafePathRe.ReplaceAllString(strings.TrimSpace(title), "-")
	if id == "" {
		return "", fmt.Errorf("workbook: empty title")
	}
	dir := filepath.Join(w.root, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("workbook: create %q: %w", id, err)
	}
	if err := os.WriteFile(w.tabPath(id, defaultTab), nil, 0644); err != nil {
		return "", fmt.Errorf("workbook: create default tab: %w", err)
	}
	return id, nil
}

// ListTabs returns the workbook's tab titles in lexical order.
func (w *Workbook) ListTabs(id string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(w.root, id))
	if err != nil {
		return nil, fmt.Errorf("workbook: list tabs of %q: %w", id, err)
	}
	var tabs []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".csv") {
			continue
		}
		tabs = append(tabs, strings.TrimSuffix(name, ".csv"))
	}
	sort.Strings(tabs)
	return tabs, nil
}

// ResolveTab returns the backing file path for a tab title.
func (w *Workbook) ResolveTab(id, title string) (string, error) {
	path := w.tabPath(id, title)
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("workbook: tab %q not found in %q: %w", title, id, err)
	}
	return path, nil
}

// DuplicateTab copies an existing tab under a new title.
func (w *Workbook) DuplicateTab(id, srcTitle, newTitle string) error {
	src, err := os.Open(w.tabPath(id, srcTitle))
	if err != nil {
		return fmt.Errorf("workbook: duplicate source: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(w.tabPath(id, newTitle))
	if err != nil {
		return fmt.Errorf("workbook: duplicate target: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("workbook: duplicate copy: %w", err)
	}
	return nil
}

// ReadValues returns the tab's full grid.
func (w *Workbook) ReadValues(id, tab string) ([][]string, error) {
	f, err := os.Open(w.tabPath(id, tab))
	if err != nil {
		return nil, fmt.Errorf("workbook: read %s/%s: %w", id, tab, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("workbook: parse %s/%s: %w", id, tab, err)
	}
	return rows, nil
}

// WriteValues overlays a grid onto the tab starting at an A1-style cell,
// growing the grid as needed. Existing cells outside the written rectangle
// are preserved; the write is an idempotent overwrite.
func (w *Workbook) WriteValues(id, tab, startCell string, values [][]string) error {
	startRow, startCol, err := parseA1(startCell)
	if err != nil {
		return err
	}

	grid, err := w.ReadValues(id, tab)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		grid = nil
	}

	for r, rowVals := range values {
		gr := startRow + r
		for len(grid) <= gr {
			grid = append(grid, nil)
		}
		row := grid[gr]
		for c, val := range rowVals {
			gc := startCol + c
			for len(row) <= gc {
				row = append(row, "")
			}
			row[gc] = val
		}
		grid[gr] = row
	}

	// Pad to a rectangle: the CSV reader drops fully blank lines, so empty
	// rows must carry the full field count to survive a round trip.
	width := 0
	for _, row := range grid {
		if len(row) > width {
			width = len(row)
		}
	}

	f, err := os.Create(w.tabPath(id, tab))
	if err != nil {
		return fmt.Errorf("workbook: write %s/%s: %w", id, tab, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	for _, row := range grid {
		for len(row) < width {
			row = append(row, "")
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("workbook: write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// faqFormat is the fixed visual template applied to FAQ report tabs.
var faqFormat = map[string]interface{}{
	"headerRow": map[string]interface{}{
		"bold":       true,
		"background": "#3D85C6",
		"foreground": "#FFFFFF",
		"alignment":  "center",
		"heightPx":   31,
	},
	"body": map[string]interface{}{
		"wrap":              true,
		"verticalAlignment": "middle",
	},
	"columnWidthsPx": map[string]int{"question": 500, "answer": 500, "other": 200},
	"borders":        "solid-black-all",
}

// ApplyFAQFormat records the FAQ formatting template for a tab.
func (w *Workbook) ApplyFAQFormat(id, tab string) error {
	if _, err := w.ResolveTab(id, tab); err != nil {
		return err
	}
	data, err := json.MarshalIndent(faqFormat, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(w.root, id, tab+".format.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("workbook: write format sidecar: %w", err)
	}
	return nil
}

func (w *Workbook) tabPath(id, tab string) string {
	safe := unsafePathRe.ReplaceAllString(tab, "-")
	return filepath.Join(w.root, id, safe+".csv")
}

// parseA1 converts a cell like "B3" to zero-based (row, col).
func parseA1(cell string) (row, col int, err error) {
	cell = strings.ToUpper(strings.TrimSpace(cell))
	i := 0
	for i < len(cell) && cell[i] >= 'A' && cell[i] <= 'Z' {
		col = col*26 + int(cell[i]-'A') + 1
		i++
	}
	if i == 0 || i == len(cell) {
		return 0, 0, fmt.Errorf("workbook: invalid cell %q", cell)
	}
	for _, c := range cell[i:] {
		if c < '0' || c > '9' {
			return 0, 0, fmt.Errorf("workbook: invalid cell %q", cell)
		}
		row = row*10 + int(c-'0')
	}
	if row == 0 {
		return 0, 0, fmt.Errorf("workbook: invalid cell %q", cell)
	}
	return row - 1, col - 1, nil
}
