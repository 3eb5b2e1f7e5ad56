package discover

import (
	"context"
	"fmt"
	"net/url"
	"testing"

	"faq-auditor/utils"
)

const domain = "www.leonardo-hotels.com"

// fakeFetcher serves canned HTML per URL and records FAQ probes.
type fakeFetcher struct {
	pages  map[string]string
	faqOK  map[string]bool
	probes []string
}

func (f *fakeFetcher) FetchText(_ context.Context, u string) (string, error) {
	html, ok := f.pages[u]
	if !ok {
		return "", fmt.Errorf("no page for %s", u)
	}
	return html, nil
}

func (f *fakeFetcher) ProbeOK(_ context.Context, u string) bool {
	f.probes = append(f.probes, u)
	return f.faqOK[u]
}

func abs(path string) string {
	return "https://" + domain + path
}

func TestCollectHotels(t *testing.T) {
	countryHTML := `<html><body>
		<nav><a href="/brand">Brand</a><a href="/offers">Offers</a></nav>
		<main>
			<a href="/munich/hotel-munich-city-center">Hotel Munich City Center</a>
			<a href="/berlin">Berlin</a>
			<a href="/germany/advantage">Advantage Club</a>
			<a href="https://external.example.com/munich/fake-hotel">Elsewhere</a>
		</main>
	</body></html>`

	berlinHTML := `<html><body><main>
		<a href="/berlin/hotel-berlin-mitte">Hotel Berlin Mitte</a>
		<a href="/berlin/hotel-berlin-mitte/reviews">Reviews</a>
	</main></body></html>`

	f := &fakeFetcher{
		pages: map[string]string{
			abs("/germany"): countryHTML,
			abs("/berlin"):  berlinHTML,
		},
		faqOK: map[string]bool{
			abs("/munich/hotel-munich-city-center/faq"): true,
			// Berlin Mitte has no reachable FAQ page.
		},
	}

	d := New(f, domain, utils.NewLogger())
	hotels, err := d.CollectHotels(context.Background(), abs("/germany"))
	if err != nil {
		t.Fatalf("CollectHotels returned error: %v", err)
	}

	if len(hotels) != 2 {
		t.Fatalf("expected 2 hotels, got %+v", hotels)
	}
	// Sorted by display name.
	if hotels[0].Name != "hotel berlin mitte" || hotels[1].Name != "hotel munich city center" {
		t.Errorf("names = %q, %q", hotels[0].Name, hotels[1].Name)
	}
	if hotels[0].FaqURL != "" {
		t.Errorf("berlin hotel should have no FAQ URL, got %q", hotels[0].FaqURL)
	}
	if hotels[1].FaqURL != abs("/munich/hotel-munich-city-center/faq") {
		t.Errorf("munich FAQ URL = %q", hotels[1].FaqURL)
	}
}

func TestCollectHotelsExcludesNonPropertyPages(t *testing.T) {
	countryHTML := `<html><body><main>
		<a href="/germany/brand">Brand page</a>
		<a href="/germany/offers">Offers</a>
		<a href="/germany/advantage">Advantage</a>
		<a href="/munich/hotel-real">Real hotel</a>
	</main></body></html>`

	f := &fakeFetcher{
		pages: map[string]string{abs("/germany"): countryHTML},
		faqOK: map[string]bool{abs("/munich/hotel-real/faq"): true},
	}
	d := New(f, domain, utils.NewLogger())
	hotels, err := d.CollectHotels(context.Background(), abs("/germany"))
	if err != nil {
		t.Fatalf("CollectHotels returned error: %v", err)
	}
	if len(hotels) != 1 || hotels[0].Name != "hotel real" {
		t.Errorf("brand/offer pages leaked into candidates: %+v", hotels)
	}
}

func TestCollectHotelsFallsBackToBodyWithoutMain(t *testing.T) {
	countryHTML := `<html><body>
		<nav><a href="/munich/hotel-in-nav">Nav hotel</a></nav>
		<div><a href="/munich/hotel-in-body">Body hotel</a></div>
	</body></html>`

	f := &fakeFetcher{
		pages: map[string]string{abs("/germany"): countryHTML},
		faqOK: map[string]bool{abs("/munich/hotel-in-body/faq"): true},
	}
	d := New(f, domain, utils.NewLogger())
	hotels, err := d.CollectHotels(context.Background(), abs("/germany"))
	if err != nil {
		t.Fatalf("CollectHotels returned error: %v", err)
	}
	if len(hotels) != 1 || hotels[0].Name != "hotel in body" {
		t.Errorf("nav links should be stripped in the body fallback: %+v", hotels)
	}
}

func TestNormalizeHotelBase(t *testing.T) {
	d := New(nil, domain, utils.NewLogger())
	tests := []struct {
		in   string
		want string
	}{
		{abs("/munich/hotel-munich/reviews"), abs("/munich/hotel-munich")},
		{abs("/munich/hotel-munich"), abs("/munich/hotel-munich")},
		{abs("/munich/offers"), ""},
		{abs("/munich/reviews"), ""},
		{abs("/munich"), ""},
	}
	for _, tt := range tests {
		u, err := url.Parse(tt.in)
		if err != nil {
			t.Fatalf("parse %q: %v", tt.in, err)
		}
		if got := d.normalizeHotelBase(u); got != tt.want {
			t.Errorf("normalizeHotelBase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPrettyNameFromURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{abs("/munich/hotel-munich-city-center"), "hotel munich city center"},
		{abs("/berlin/leonardo-royal-berlin"), "leonardo royal berlin"},
		{abs("/k%C3%B6ln/hotel-k%C3%B6ln"), "hotel köln"},
	}
	for _, tt := range tests {
		if got := PrettyNameFromURL(tt.in); got != tt.want {
			t.Errorf("PrettyNameFromURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPathSegments(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{abs("/munich/hotel-x"), 2},
		{abs("/munich/hotel-x?ref=nav"), 2},
		{abs("/munich/hotel-x#faq"), 2},
		{abs("/"), 0},
		{abs(""), 0},
	}
	for _, tt := range tests {
		if got := len(pathSegments(tt.in)); got != tt.want {
			t.Errorf("pathSegments(%q) len = %d, want %d", tt.in, got, tt.want)
		}
	}
}
