package mock

import "github.com/ottawa-dropin/dropin"

var _ dropin.PageParser = (*PageParser)(nil)

// PageParser is a mock implementation of dropin.PageParser.
type PageParser struct {
	PageCountFn     func(html string) (int, error)
	FacilityLinksFn func(html, baseURL string) ([]string, error)
	ParseFacilityFn func(html string) (*dropin.FacilityPage, error)
}

func (p *PageParser) PageCount(html string) (int, error) {
	return p.PageCountFn(html)
}

func (p *PageParser) FacilityLinks(html, baseURL string) ([]string, error) {
	return p.FacilityLinksFn(html, baseURL)
}

func (p *PageParser) ParseFacility(html string) (*dropin.FacilityPage, error) {
	return p.ParseFacilityFn(html)
}
