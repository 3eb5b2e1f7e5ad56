package seo

import (
	"strings"
	"testing"
)

const goodMeta = `<title>Hotel Munich City Center — FAQ</title>
	<meta name="description" content="Answers to common questions about check-in, parking and breakfast.">`

func page(head, body string) string {
	return "<html><head>" + head + "</head><body>" + body + "</body></html>"
}

func hasReason(t *testing.T, html, reason string) bool {
	t.Helper()
	res, err := Check(html)
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
	for _, it := range res.Issues {
		if it.Reason == reason {
			return true
		}
	}
	return false
}

func TestCheckMetaTitle(t *testing.T) {
	if !hasReason(t, page(`<meta name="description" content="A perfectly long description of the hotel FAQ page.">`, ""),
		"[meta] Missing <title> tag") {
		t.Error("missing title not flagged")
	}

	// "Hotel FAQ" is 9 chars, just under the threshold.
	if !hasReason(t, page(`<title>Hotel FAQ</title>`, ""),
		"[meta] <title> is very short (less than 10 chars)") {
		t.Error("9-char title not flagged as short")
	}

	if hasReason(t, page(`<title>Hotel FAQs</title>`, ""),
		"[meta] <title> is very short (less than 10 chars)") {
		t.Error("10-char title wrongly flagged")
	}

	// Length is counted in characters, not bytes: "Hôtel-FAQ" is 9 runes
	// but more than 10 bytes, "Köln Hotels" is 11 runes.
	if !hasReason(t, page(`<title>Hôtel-FAQ</title>`, ""),
		"[meta] <title> is very short (less than 10 chars)") {
		t.Error("9-rune accented title not flagged as short")
	}
	if hasReason(t, page(`<title>Köln Hotels</title>`, ""),
		"[meta] <title> is very short (less than 10 chars)") {
		t.Error("11-rune accented title wrongly flagged")
	}
}

func TestCheckMetaDescription(t *testing.T) {
	if !hasReason(t, page(`<title>Hotel Munich FAQ page</title>`, ""),
		`[meta] Missing meta "description"`) {
		t.Error("missing description not flagged")
	}
	if !hasReason(t, page(`<title>Hotel Munich FAQ page</title><meta name="description" content="Too short.">`, ""),
		"[meta] description is very short (less than 30 chars)") {
		t.Error("short description not flagged")
	}

	// 29 runes but over 30 bytes: the umlauts must not mask the shortfall.
	if !hasReason(t, page(`<title>Hotel Munich FAQ page</title><meta name="description" content="Übernachtung im Hotel München">`, ""),
		"[meta] description is very short (less than 30 chars)") {
		t.Error("29-rune accented description not flagged as short")
	}
}

func TestCheckNoJSONLD(t *testing.T) {
	res, err := Check(page(goodMeta, "<p>hi</p>"))
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
	if len(res.Issues) != 1 || res.Issues[0].Reason != "[schema] No JSON-LD script tags found on page" {
		t.Errorf("issues = %+v", res.Issues)
	}
	if res.SchemaOk {
		t.Error("SchemaOk must be false without JSON-LD")
	}
}

func TestCheckInvalidJSONLD(t *testing.T) {
	body := `<script type="application/ld+json">{not json</script>`
	res, err := Check(page(goodMeta, body))
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
	var sawParse, sawEmpty bool
	for _, it := range res.Issues {
		if it.Reason == "[schema] Invalid JSON-LD (parse error)" {
			sawParse = true
		}
		if it.Reason == "[schema] No valid JSON-LD objects parsed" {
			sawEmpty = true
		}
	}
	if !sawParse || !sawEmpty {
		t.Errorf("issues = %+v", res.Issues)
	}
}

func TestCheckNoFAQPageType(t *testing.T) {
	body := `<script type="application/ld+json">{"@type":"Hotel","name":"Leonardo"}</script>`
	if !hasReason(t, page(goodMeta, body), "[schema] No @type: FAQPage object found in JSON-LD") {
		t.Error("non-FAQPage schema not flagged")
	}
}

func TestCheckValidFAQPage(t *testing.T) {
	body := `<script type="application/ld+json">{
		"@context": "https://schema.org",
		"@type": "FAQPage",
		"mainEntity": [
			{"@type": "Question", "name": "Is parking available?",
			 "acceptedAnswer": {"@type": "Answer", "text": "Yes, in the underground garage."}},
			{"@type": "Question", "name": "Is breakfast included?",
			 "acceptedAnswer": {"@type": "Answer", "text": "Breakfast is included in most rates."}}
		]
	}</script>`

	res, err := Check(page(goodMeta, body))
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
	if len(res.Issues) != 0 {
		t.Errorf("unexpected issues: %+v", res.Issues)
	}
	if len(res.SchemaQAs) != 2 {
		t.Fatalf("expected 2 schema pairs, got %+v", res.SchemaQAs)
	}
	if res.SchemaQAs[0].Q != "Is parking available?" || res.SchemaQAs[0].A != "Yes, in the underground garage." {
		t.Errorf("first pair = %+v", res.SchemaQAs[0])
	}
	if !res.SchemaOk {
		t.Error("SchemaOk must be true for a clean FAQPage")
	}
}

func TestCheckFAQPageInsideGraph(t *testing.T) {
	body := `<script type="application/ld+json">{
		"@context": "https://schema.org",
		"@graph": [
			{"@type": "Hotel", "name": "Leonardo"},
			{"@type": "FAQPage", "mainEntity": {
				"@type": "Question", "name": "Do you have a gym?",
				"acceptedAnswer": {"@type": "Answer", "text": "The gym is open around the clock."}
			}}
		]
	}</script>`

	res, err := Check(page(goodMeta, body))
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
	if len(res.SchemaQAs) != 1 {
		t.Fatalf("expected 1 pair from @graph, got %+v", res.SchemaQAs)
	}
	if !res.SchemaOk {
		t.Error("SchemaOk must be true")
	}
}

func TestCheckFAQPageMissingAnswer(t *testing.T) {
	body := `<script type="application/ld+json">{
		"@type": "FAQPage",
		"mainEntity": [
			{"@type": "Question", "name": "Is there a spa?"},
			{"@type": "Question", "name": "Is there a pool?",
			 "acceptedAnswer": {"@type": "Answer", "text": "Yes, on the top floor."}}
		]
	}</script>`

	res, err := Check(page(goodMeta, body))
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
	if !hasReason(t, page(goodMeta, body), "[schema] Question or answer missing in FAQPage mainEntity item") {
		t.Error("incomplete entry not flagged")
	}
	if len(res.SchemaQAs) != 1 {
		t.Errorf("expected the complete pair to survive, got %+v", res.SchemaQAs)
	}
	// The invariant: any schema issue forces SchemaOk to false even though
	// valid pairs exist.
	if res.SchemaOk {
		t.Error("SchemaOk must be false when any schema issue exists")
	}
}

func TestCheckEmptyFAQPage(t *testing.T) {
	body := `<script type="application/ld+json">{"@type":"FAQPage","mainEntity":[]}</script>`
	res, err := Check(page(goodMeta, body))
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
	if !hasReason(t, page(goodMeta, body), "[schema] FAQPage exists but contains no valid Q/A pairs") {
		t.Error("empty FAQPage not flagged")
	}
	if res.SchemaOk {
		t.Error("SchemaOk must be false for empty FAQPage")
	}
}

func TestCheckTypeArrayAndAnswerArray(t *testing.T) {
	body := `<script type="application/ld+json">{
		"@type": ["WebPage", "FAQPage"],
		"mainEntity": [{
			"@type": "Question", "name": "How do I get there?",
			"acceptedAnswers": [
				{"@type": "Answer", "text": "Take the S-Bahn to Hauptbahnhof."},
				{"@type": "Answer", "text": "Buses 100 and 200 stop outside."}
			]
		}]
	}</script>`

	res, err := Check(page(goodMeta, body))
	if err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
	if len(res.SchemaQAs) != 1 {
		t.Fatalf("expected 1 pair, got %+v", res.SchemaQAs)
	}
	if !strings.Contains(res.SchemaQAs[0].A, "S-Bahn") || !strings.Contains(res.SchemaQAs[0].A, "Buses 100") {
		t.Errorf("array answers not joined: %q", res.SchemaQAs[0].A)
	}
}
