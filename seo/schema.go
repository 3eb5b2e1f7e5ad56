// Package seo inspects page metadata and JSON-LD structured data for an
// independent picture of a page's declared FAQ content.
package seo

import (
	"encoding/json"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"faq-auditor/models"
)

var faqTypeRe = regexp.MustCompile(`(?i)faqpage`)

// Check runs the meta and FAQ-schema inspection over raw page HTML. Each
// condition yields at most one issue; schema findings carry a "[schema]"
// reason prefix so they can be summarized separately from meta findings.
func Check(html string) (models.SEOResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return models.SEOResult{}, err
	}

	res := models.SEOResult{}

	res.MetaTitle = strings.TrimSpace(doc.Find("head > title").Text())
	if res.MetaTitle == "" {
		res.Issues = append(res.Issues, models.PageIssue("[meta] Missing <title> tag"))
	} else if utf8.RuneCountInString(res.MetaTitle) < 10 {
		res.Issues = append(res.Issues, models.PageIssue("[meta] <title> is very short (less than 10 chars)"))
	}

	desc, _ := doc.Find(`head meta[name="description"]`).Attr("content")
	res.MetaDescription = strings.TrimSpace(desc)
	if res.MetaDescription == "" {
		res.Issues = append(res.Issues, models.PageIssue(`[meta] Missing meta "description"`))
	} else if utf8.RuneCountInString(res.MetaDescription) < 30 {
		res.Issues = append(res.Issues, models.PageIssue("[meta] description is very short (less than 30 chars)"))
	}

	scripts := doc.Find(`script[type="application/ld+json"]`)
	if scripts.Length() == 0 {
		res.Issues = append(res.Issues, models.PageIssue("[schema] No JSON-LD script tags found on page"))
		return res, nil
	}

	var objects []map[string]interface{}
	scripts.Each(func(_ int, s *goquery.Selection) {
		txt := strings.TrimSpace(s.Text())
		if txt == "" {
			return
		}
		var parsed interface{}
		if err := json.Unmarshal([]byte(txt), &parsed); err != nil {
			res.Issues = append(res.Issues, models.PageIssue("[schema] Invalid JSON-LD (parse error)"))
			return
		}
		switch v := parsed.(type) {
		case []interface{}:
			for _, item := range v {
				if m, ok := item.(map[string]interface{}); ok {
					objects = append(objects, m)
				}
			}
		case map[string]interface{}:
			objects = append(objects, v)
		}
	})

	if len(objects) == 0 {
		res.Issues = append(res.Issues, models.PageIssue("[schema] No valid JSON-LD objects parsed"))
		return res, nil
	}

	var faqObjects []map[string]interface{}
	for _, obj := range objects {
		faqObjects = append(faqObjects, findFAQObjects(obj)...)
	}

	if len(faqObjects) == 0 {
		res.Issues = append(res.Issues, models.PageIssue("[schema] No @type: FAQPage object found in JSON-LD"))
		return res, nil
	}

	for _, faq := range faqObjects {
		for _, entry := range mainEntities(faq) {
			q := normalizeSpace(stringField(entry, "name", "question"))
			a := normalizeSpace(answerText(entry))
			if q == "" || a == "" {
				res.Issues = append(res.Issues, models.PageIssue("[schema] Question or answer missing in FAQPage mainEntity item"))
				continue
			}
			res.SchemaQAs = append(res.SchemaQAs, models.QA{Q: q, A: a})
		}
	}

	if len(res.SchemaQAs) == 0 {
		res.Issues = append(res.Issues, models.PageIssue("[schema] FAQPage exists but contains no valid Q/A pairs"))
	}

	res.SchemaOk = len(res.SchemaQAs) > 0 && !hasSchemaIssue(res.Issues)
	return res, nil
}

// findFAQObjects walks an object and its nested @graph arrays looking for
// FAQPage-typed entries.
func findFAQObjects(obj map[string]interface{}) []map[string]interface{} {
	var out []map[string]interface{}
	if t, ok := obj["@type"]; ok && faqTypeRe.MatchString(typeString(t)) {
		out = append(out, obj)
	}
	if graph, ok := obj["@graph"].([]interface{}); ok {
		for _, item := range graph {
			if m, ok := item.(map[string]interface{}); ok {
				out = append(out, findFAQObjects(m)...)
			}
		}
	}
	return out
}

// typeString renders @type whether it is a string or an array of strings.
func typeString(t interface{}) string {
	switch v := t.(type) {
	case string:
		return v
	case []interface{}:
		var parts []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, " ")
	}
	return ""
}

// mainEntities returns the FAQ entries under mainEntity or
// mainEntityOfPage, normalizing the single-object form to a slice.
func mainEntities(faq map[string]interface{}) []map[string]interface{} {
	main, ok := faq["mainEntity"]
	if !ok {
		main = faq["mainEntityOfPage"]
	}

	var out []map[string]interface{}
	switch v := main.(type) {
	case []interface{}:
		for _, item := range v {
			if m, ok := item.(map[string]interface{}); ok {
				out = append(out, m)
			}
		}
	case map[string]interface{}:
		out = append(out, v)
	}
	return out
}

// answerText extracts the answer body from acceptedAnswer/acceptedAnswers/
// answer, joining array forms with spaces.
func answerText(entry map[string]interface{}) string {
	accepted, ok := entry["acceptedAnswer"]
	if !ok {
		accepted = entry["acceptedAnswers"]
	}
	if accepted == nil {
		accepted = entry["answer"]
	}

	switch v := accepted.(type) {
	case []interface{}:
		var parts []string
		for _, item := range v {
			if m, ok := item.(map[string]interface{}); ok {
				parts = append(parts, stringField(m, "text", "articleBody"))
			}
		}
		return strings.Join(parts, " ")
	case map[string]interface{}:
		return stringField(v, "text", "articleBody")
	}
	return ""
}

// stringField returns the first non-empty string value among keys.
func stringField(m map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func hasSchemaIssue(issues []models.Issue) bool {
	for _, it := range issues {
		if strings.HasPrefix(it.Reason, "[schema]") {
			return true
		}
	}
	return false
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
