// Package extract locates question/answer groupings in FAQ page HTML using
// a cascade of structural heuristics. Each strategy is independent; the
// first one that yields results for an item wins, and all of them tolerate
// partial or missing markup by skipping silently.
package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"faq-auditor/models"
)

// faqHeadingRe marks headings that delimit labeled FAQ sections.
var faqHeadingRe = regexp.MustCompile(`(?i)faq|question|policy|stay|room|facility|service|booking|payment|amenit`)

const itemContainerSel = ".accordion-item, .accordion__item, .faq-item, .faq__item, " +
	"[data-faq-item], [data-accordion-item], details, dl"

const questionSel = "summary, h2, h3, h4, button, .question, [data-question]"
const answerSel = ".answer, .accordion-body, .accordion__panel, [data-answer]"
const strippedSel = "summary, h1, h2, h3, h4, h5, h6, button, .question, [data-question], [role=button]"

// Strategy attempts to produce Q/A pairs from one scoped document region.
type Strategy struct {
	Name  string
	Apply func(doc *goquery.Document, item *goquery.Selection) []models.QA
}

// itemStrategies is the ordered cascade tried per item container.
var itemStrategies = []Strategy{
	{Name: "definition-list", Apply: definitionListPairs},
	{Name: "disclosure", Apply: disclosurePair},
	{Name: "aria-panel", Apply: ariaPanelPair},
	{Name: "generic-container", Apply: genericContainerPair},
}

// Extract parses the HTML and returns labeled groups of Q/A pairs. Headings
// matching FAQ-relevant keywords delimit groups; with no such headings the
// whole page is one group.
func Extract(html string) ([]models.Group, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	type section struct {
		label string
		el    *goquery.Selection
	}
	var sections []section
	doc.Find("h2, h3").Each(func(_ int, h *goquery.Selection) {
		t := NormalizeSpace(h.Text())
		if t == "" || !faqHeadingRe.MatchString(t) {
			return
		}
		sections = append(sections, section{label: t, el: h})
	})

	var groups []models.Group
	for i, sec := range sections {
		var scope *goquery.Selection
		if i+1 < len(sections) {
			scope = sec.el.NextUntilSelection(sections[i+1].el)
		} else {
			scope = sec.el.NextAll()
		}
		items := collectFromScope(doc, scope)
		if len(items) > 0 {
			groups = append(groups, models.Group{Label: sec.label, Items: items})
		}
	}

	if len(groups) == 0 {
		items := collectFromScope(doc, doc.Find("body"))
		if len(items) > 0 {
			groups = append(groups, models.Group{Label: "FAQ", Items: items})
		}
	}

	return groups, nil
}

// Flatten returns all pairs of all groups in order.
func Flatten(groups []models.Group) []models.QA {
	var out []models.QA
	for _, g := range groups {
		out = append(out, g.Items...)
	}
	return out
}

// collectFromScope harvests pairs from one section scope: recognized item
// containers first, heading blocks as the whole-scope last resort.
func collectFromScope(doc *goquery.Document, scope *goquery.Selection) []models.QA {
	var out []models.QA

	items := scope.Find(itemContainerSel).AddBackFiltered(itemContainerSel)
	if items.Length() > 0 {
		items.Each(func(_ int, item *goquery.Selection) {
			for _, s := range itemStrategies {
				if qas := s.Apply(doc, item); len(qas) > 0 {
					out = append(out, qas...)
					return
				}
			}
		})
		if len(out) > 0 {
			return DedupeQAs(out)
		}
	}

	out = headingBlockPairs(scope)
	return DedupeQAs(out)
}

// definitionListPairs pairs dt/dd elements by position within a dl.
func definitionListPairs(_ *goquery.Document, item *goquery.Selection) []models.QA {
	if goquery.NodeName(item) != "dl" {
		return nil
	}
	dts := item.Find("dt")
	dds := item.Find("dd")
	n := dts.Length()
	if dds.Length() < n {
		n = dds.Length()
	}

	var out []models.QA
	for i := 0; i < n; i++ {
		q := NormalizeSpace(dts.Eq(i).Text())
		a := NormalizeSpace(dds.Eq(i).Text())
		if q != "" && a != "" {
			out = append(out, models.QA{Q: q, A: a})
		}
	}
	return out
}

// disclosurePair uses a details element's summary as the question and its
// remaining text as the answer.
func disclosurePair(_ *goquery.Document, item *goquery.Selection) []models.QA {
	if goquery.NodeName(item) != "details" {
		return nil
	}
	q := NormalizeSpace(item.Find("summary").First().Text())
	clone := item.Clone()
	clone.Find("summary").Remove()
	a := NormalizeSpace(clone.Text())
	if q == "" || a == "" {
		return nil
	}
	return []models.QA{{Q: q, A: a}}
}

// ariaPanelPair maps an aria-controls trigger to its panel: question from
// the trigger, answer from the referenced panel, with stripped-container
// text as the answer fallback.
func ariaPanelPair(doc *goquery.Document, item *goquery.Selection) []models.QA {
	trigger := item.Find("[aria-controls]").First()
	if trigger.Length() == 0 {
		trigger = item.Closest("[aria-controls]").First()
	}
	if trigger.Length() == 0 {
		return nil
	}

	q := NormalizeSpace(trigger.Text())
	if q == "" {
		q = NormalizeSpace(item.Find("summary, h2, h3, h4, .question, [data-question], [role=button]").First().Text())
	}

	var a string
	if ctrl, ok := trigger.Attr("aria-controls"); ok && ctrl != "" {
		a = NormalizeSpace(doc.Find("#" + ctrl).Text())
	}
	if a == "" {
		a = NormalizeSpace(item.Find(answerSel + ", .accordion-panel").First().Text())
	}
	if a == "" {
		a = strippedText(item)
	}
	if q == "" || a == "" {
		return nil
	}
	return []models.QA{{Q: q, A: a}}
}

// genericContainerPair takes the first heading/button-like descendant as
// the question and a recognized answer-class descendant (or the container
// text without heading/button descendants) as the answer.
func genericContainerPair(_ *goquery.Document, item *goquery.Selection) []models.QA {
	q := NormalizeSpace(item.Find(questionSel).First().Text())
	if q == "" {
		q = NormalizeSpace(item.Find("[role=button]").First().Text())
	}

	a := NormalizeSpace(item.Find(answerSel).First().Text())
	if a == "" {
		a = strippedText(item)
	}
	if q == "" || a == "" {
		return nil
	}
	return []models.QA{{Q: q, A: a}}
}

// headingBlockPairs is the whole-page fallback: each h3/h4 is a question,
// the paragraph/list/div siblings up to the next heading form the answer.
func headingBlockPairs(scope *goquery.Selection) []models.QA {
	var out []models.QA
	scope.Find("h3, h4").Each(func(_ int, h *goquery.Selection) {
		q := NormalizeSpace(h.Text())
		if q == "" {
			return
		}
		var parts []string
		h.NextUntil("h3, h4").Each(func(_ int, b *goquery.Selection) {
			switch goquery.NodeName(b) {
			case "p", "div", "ul", "ol", "li":
				if t := NormalizeSpace(b.Text()); t != "" {
					parts = append(parts, t)
				}
			}
		})
		a := strings.Join(parts, " ")
		if a != "" {
			out = append(out, models.QA{Q: q, A: a})
		}
	})
	return out
}

// strippedText is the container's text with heading/button descendants removed.
func strippedText(item *goquery.Selection) string {
	clone := item.Clone()
	clone.Find(strippedSel).Remove()
	return NormalizeSpace(clone.Text())
}

// DedupeQAs keeps exactly one pair for every case-insensitive,
// whitespace-normalized (q, a) key, preserving first-seen order.
func DedupeQAs(items []models.QA) []models.QA {
	seen := make(map[string]struct{}, len(items))
	out := make([]models.QA, 0, len(items))
	for _, qa := range items {
		key := strings.ToLower(NormalizeSpace(qa.Q + "||" + qa.A))
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, models.QA{Q: strings.TrimSpace(qa.Q), A: strings.TrimSpace(qa.A)})
	}
	return out
}

// NormalizeSpace trims and collapses all internal whitespace runs.
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
