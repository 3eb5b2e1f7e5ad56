package services

import (
	"fmt"
	"sort"
	"strings"

	"faq-auditor/models"
	"faq-auditor/utils"
)

// InsightService computes and prints analytics over a finished audit report.
type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate aggregates report rows into run-level insights. Detail rows are
// recognized by their "Issue" status; every other row is a hotel summary.
func (s *InsightService) Generate(rows []models.AuditRow, summary models.AuditSummary) *models.AuditInsights {
	insights := &models.AuditInsights{
		HotelsProcessed:    summary.HotelsProcessed,
		HotelsWithFaq:      summary.HotelsWithFaq,
		HotelsWithProblems: summary.HotelsWithProblems,
		IssuesByKind:       make(map[string]int),
	}

	issuesByHotel := make(map[string]int)
	for _, r := range rows {
		if r.Status == "Issue" {
			insights.TotalIssues++
			insights.IssuesByKind[r.Kind]++
			issuesByHotel[r.Hotel]++
			continue
		}
		if strings.HasPrefix(r.SchemaSummary, "OK") {
			insights.SchemaOkHotels++
		}
	}

	for hotel, count := range issuesByHotel {
		insights.WorstHotels = append(insights.WorstHotels, models.HotelIssueCount{Hotel: hotel, Issues: count})
	}
	sort.Slice(insights.WorstHotels, func(i, j int) bool {
		if insights.WorstHotels[i].Issues != insights.WorstHotels[j].Issues {
			return insights.WorstHotels[i].Issues > insights.WorstHotels[j].Issues
		}
		return insights.WorstHotels[i].Hotel < insights.WorstHotels[j].Hotel
	})
	if len(insights.WorstHotels) > 5 {
		insights.WorstHotels = insights.WorstHotels[:5]
	}

	return insights
}

// Print renders the insights to the console.
func (s *InsightService) Print(r *models.AuditInsights) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Printf("\n\033[1;35m%s\033[0m\n", sep)
	fmt.Printf("\033[1;35m  FAQ AUDIT INSIGHTS\033[0m\n")
	fmt.Printf("\033[1;35m%s\033[0m\n\n", sep)

	fmt.Printf("\033[1;33m  Overview\033[0m\n")
	fmt.Printf("  %s\n", thin)
	fmt.Printf("  Hotels processed    : \033[1m%d\033[0m\n", r.HotelsProcessed)
	fmt.Printf("  Hotels with FAQ     : \033[1m%d\033[0m\n", r.HotelsWithFaq)
	fmt.Printf("  Hotels with issues  : \033[1m%d\033[0m\n", r.HotelsWithProblems)
	fmt.Printf("  Schema OK           : \033[1m%d\033[0m\n", r.SchemaOkHotels)
	fmt.Println()

	fmt.Printf("\033[1;33m  Issues by Kind\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if r.TotalIssues == 0 {
		fmt.Printf("  No issues found\n")
	} else {
		kinds := make([]string, 0, len(r.IssuesByKind))
		for k := range r.IssuesByKind {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			fmt.Printf("  %-10s : \033[1m%d\033[0m\n", k, r.IssuesByKind[k])
		}
		fmt.Printf("  %-10s : \033[1m%d\033[0m\n", "total", r.TotalIssues)
	}
	fmt.Println()

	fmt.Printf("\033[1;33m  Hotels With Most Issues\033[0m\n")
	fmt.Printf("  %s\n", thin)
	if len(r.WorstHotels) == 0 {
		fmt.Printf("  None\n")
	} else {
		for i, hc := range r.WorstHotels {
			bar := strings.Repeat("█", hc.Issues)
			fmt.Printf("  \033[1m%d.\033[0m %-32s %s (%d)\n", i+1, truncate(hc.Hotel, 30), bar, hc.Issues)
		}
	}

	fmt.Printf("\n\033[1;35m%s\033[0m\n\n", sep)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
