// Package discover finds hotel property pages on a country/region listing
// page, including hotels only reachable through intermediate city pages.
package discover

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"faq-auditor/models"
	"faq-auditor/utils"
)

// nonPropertyRe filters brand/loyalty/offer pages that share the property
// URL shape but are not hotels.
var nonPropertyRe = regexp.MustCompile(`(?i)/(brand|advantage|club|loyalty|offers?)/?$`)

// hotelSegGuardRe rejects second path segments that sometimes masquerade
// as a hotel slug.
var hotelSegGuardRe = regexp.MustCompile(`(?i)^(reviews|offers?|brand|advantage|club|loyalty)$`)

// Fetcher is the page-retrieval capability discovery depends on.
type Fetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
	ProbeOK(ctx context.Context, url string) bool
}

// Discoverer collects hotel property pages from a country listing.
type Discoverer struct {
	fetch      Fetcher
	baseDomain string
	logger     *utils.Logger
}

// New creates a Discoverer bound to one site domain.
func New(fetch Fetcher, baseDomain string, logger *utils.Logger) *Discoverer {
	return &Discoverer{fetch: fetch, baseDomain: baseDomain, logger: logger}
}

// CollectHotels returns the hotels reachable from the country page, sorted
// alphabetically by display name. Each hotel's FAQ URL is probed; hotels
// without a reachable FAQ page carry an empty FaqURL.
func (d *Discoverer) CollectHotels(ctx context.Context, countryURL string) ([]models.HotelItem, error) {
	html, err := d.fetch.FetchText(ctx, countryURL)
	if err != nil {
		return nil, fmt.Errorf("discover: country page: %w", err)
	}

	hotelLinks := utils.NewURLSet()
	cityLinks := utils.NewURLSet()
	d.classifyLinks(html, countryURL, hotelLinks, cityLinks)

	// City pages list hotels the country page hides behind "see all".
	for _, cityURL := range cityLinks.Values() {
		cityHTML, err := d.fetch.FetchText(ctx, cityURL)
		if err != nil {
			d.logger.Debug("[discover] city page %s skipped: %v", cityURL, err)
			continue
		}
		d.classifyLinks(cityHTML, cityURL, hotelLinks, nil)
	}

	cities := make(map[string]struct{})
	for _, hotelURL := range hotelLinks.Values() {
		if seg := firstPathSegment(hotelURL); seg != "" {
			cities[strings.ToLower(seg)] = struct{}{}
		}
	}

	d.logger.Info("[discover] City pages found: %d", cityLinks.Size())
	d.logger.Info("[discover] Hotel links found (country + cities): %d", hotelLinks.Size())

	var hotels []models.HotelItem
	for _, hotelURL := range hotelLinks.Values() {
		if !d.belongsToCity(ctx, hotelURL, cities) {
			d.logger.Debug("[discover] %s excluded — no city association", hotelURL)
			continue
		}

		faqURL := hotelURL + "/faq"
		ok := d.fetch.ProbeOK(ctx, faqURL)
		d.logger.Debug("[discover] probe %s -> %v", faqURL, ok)

		item := models.HotelItem{Name: PrettyNameFromURL(hotelURL)}
		if ok {
			item.FaqURL = faqURL
		}
		hotels = append(hotels, item)
	}

	sort.Slice(hotels, func(i, j int) bool { return hotels[i].Name < hotels[j].Name })
	return hotels, nil
}

// classifyLinks scans the page's primary content region and sorts every
// in-domain link into hotel candidates (two or more path segments) and,
// when cityLinks is non-nil, city candidates (one segment). Malformed
// links are skipped individually.
func (d *Discoverer) classifyLinks(html, pageURL string, hotelLinks, cityLinks *utils.URLSet) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		d.logger.Warn("[discover] parse %s: %v", pageURL, err)
		return
	}

	scope := doc.Find("main")
	if scope.Length() == 0 {
		scope = doc.Find("body").Clone()
		scope.Find("header, nav, footer, .site-header, .site-footer, [role='navigation']").Remove()
	}

	pageSeg := strings.ToLower(firstPathSegment(pageURL))

	scope.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		hrefRaw, _ := a.Attr("href")
		hrefRaw = strings.TrimSpace(hrefRaw)
		if hrefRaw == "" {
			return
		}

		href := makeAbsolute(pageURL, hrefRaw)
		u, err := url.Parse(href)
		if err != nil {
			return
		}
		if (u.Scheme != "http" && u.Scheme != "https") || !strings.EqualFold(u.Host, d.baseDomain) {
			return
		}
		if nonPropertyRe.MatchString(href) {
			return
		}

		segs := pathSegments(u.Path)
		switch {
		case len(segs) >= 2:
			if base := d.normalizeHotelBase(u); base != "" {
				hotelLinks.Add(base)
			}
		case len(segs) == 1 && cityLinks != nil:
			// The country page links to itself; that is not a city.
			if pageSeg != "" && strings.EqualFold(segs[0], pageSeg) {
				return
			}
			clean := strings.TrimSuffix(u.Scheme+"://"+u.Host+u.Path, "/")
			cityLinks.Add(clean)
		}
	})
}

// normalizeHotelBase reduces a hotel link to its first two path segments,
// stripping subpages like /reviews, or returns "" for non-property paths.
func (d *Discoverer) normalizeHotelBase(u *url.URL) string {
	segs := pathSegments(u.Path)
	if len(segs) < 2 {
		return ""
	}
	if hotelSegGuardRe.MatchString(segs[1]) {
		return ""
	}
	return u.Scheme + "://" + u.Host + "/" + segs[0] + "/" + segs[1]
}

// belongsToCity validates that a hotel URL is part of a genuine city
// grouping: its slug matches a known city, or its page mentions one of the
// discovered cities in the breadcrumb or body.
func (d *Discoverer) belongsToCity(ctx context.Context, hotelURL string, cities map[string]struct{}) bool {
	if seg := firstPathSegment(hotelURL); seg != "" {
		if _, ok := cities[strings.ToLower(seg)]; ok {
			return true
		}
	}

	html, err := d.fetch.FetchText(ctx, hotelURL)
	if err != nil {
		return false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return false
	}

	crumb := strings.ToLower(doc.Find("[aria-label='breadcrumb'], nav.breadcrumb, .breadcrumb").Text())
	for city := range cities {
		if crumb != "" && strings.Contains(crumb, city) {
			return true
		}
	}

	body := doc.Find("body").Text()
	for city := range cities {
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(city) + `\b`)
		if err != nil {
			continue
		}
		if re.MatchString(body) {
			return true
		}
	}
	return false
}

// PrettyNameFromURL derives a human-readable hotel name from the URL's
// last path segment.
func PrettyNameFromURL(rawURL string) string {
	segs := pathSegments(rawURL)
	last := rawURL
	if len(segs) > 0 {
		last = segs[len(segs)-1]
	}
	if decoded, err := url.PathUnescape(last); err == nil {
		last = decoded
	}
	return strings.TrimSpace(strings.ReplaceAll(last, "-", " "))
}

func makeAbsolute(base, href string) string {
	bu, err := url.Parse(base)
	if err != nil {
		return href
	}
	hu, err := url.Parse(href)
	if err != nil {
		return href
	}
	return bu.ResolveReference(hu).String()
}

func pathSegments(path string) []string {
	if i := strings.IndexAny(path, "#?"); i >= 0 {
		path = path[:i]
	}
	if i := strings.Index(path, "://"); i >= 0 {
		rest := path[i+3:]
		if j := strings.Index(rest, "/"); j >= 0 {
			path = rest[j:]
		} else {
			path = ""
		}
	}
	var segs []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

func firstPathSegment(rawURL string) string {
	segs := pathSegments(rawURL)
	if len(segs) == 0 {
		return ""
	}
	return segs[0]
}
