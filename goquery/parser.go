// Package goquery implements dropin.PageParser for the city's facility site
// using CSS selectors.
package goquery

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ottawa-dropin/dropin"
	"golang.org/x/net/html"
)

// Compile-time interface verification.
var _ dropin.PageParser = (*Parser)(nil)

// Selectors used on the facility site.
const (
	pagerSelector        = "ul.pager__items"
	pagerItemSelector    = "ul.pager__items li"
	facilityRowSelector  = "tr"
	facilityLinkSelector = "a[href]"
	titleSelector        = "h1.page-title span.field--name-title"
)

var (
	dropInPattern = regexp.MustCompile(`(?i)drop-in`)
	spacePattern  = regexp.MustCompile(`[\x{00a0}\s]+`)
)

// Parser extracts facility list and facility page structure.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// PageCount returns the number of facility list pages. The pager lists one
// item per page plus a trailing "next" item.
func (p *Parser) PageCount(htmlContent string) (int, error) {
	doc, err := parse(htmlContent)
	if err != nil {
		return 0, err
	}

	if doc.Find(pagerSelector).Length() == 0 {
		return 0, dropin.Errorf(dropin.ENOTFOUND, "no pagination found")
	}
	return max(0, doc.Find(pagerItemSelector).Length()-1), nil
}

// FacilityLinks returns the first link of every row of the first table body,
// resolved against baseURL. Rows without a usable link are skipped.
func (p *Parser) FacilityLinks(htmlContent string, baseURL string) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, dropin.Errorf(dropin.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := parse(htmlContent)
	if err != nil {
		return nil, err
	}

	var links []string
	doc.Find("tbody").First().Find(facilityRowSelector).Each(func(_ int, row *goquery.Selection) {
		href, ok := row.Find(facilityLinkSelector).First().Attr("href")
		if !ok || href == "" || isNonHTTPLink(href) {
			return
		}
		if resolved := resolveURL(base, href); resolved != "" {
			links = append(links, resolved)
		}
	})
	return links, nil
}

// ParseFacility extracts the facility title, whether the page advertises
// drop-in activities, and the markup of every table on the page.
func (p *Parser) ParseFacility(htmlContent string) (*dropin.FacilityPage, error) {
	doc, err := parse(htmlContent)
	if err != nil {
		return nil, err
	}

	page := &dropin.FacilityPage{
		Title: cleanText(doc.Find(titleSelector).First().Text()),
	}

	doc.Find("button").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		page.HasDropIn = dropInPattern.MatchString(sel.Text())
		return !page.HasDropIn
	})

	var renderErr error
	doc.Find("table").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		var sb strings.Builder
		if renderErr = html.Render(&sb, sel.Get(0)); renderErr != nil {
			return false
		}
		page.Tables = append(page.Tables, sb.String())
		return true
	})
	if renderErr != nil {
		return nil, dropin.Errorf(dropin.EINTERNAL, "failed to render table: %v", renderErr)
	}

	return page, nil
}

func parse(htmlContent string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, dropin.Errorf(dropin.EINVALID, "failed to parse HTML: %v", err)
	}
	return doc, nil
}

// cleanText collapses whitespace, including non-breaking spaces, and trims.
func cleanText(s string) string {
	return strings.TrimSpace(spacePattern.ReplaceAllString(s, " "))
}

// resolveURL resolves a relative URL against a base URL.
// Returns empty string if the href cannot be parsed.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:")
}
