package dropin

// FacilityPage is the schedule-relevant content of one facility page.
type FacilityPage struct {
	// Title is the facility name. Empty if the page has no title element.
	Title string

	// HasDropIn reports whether the page advertises drop-in activities.
	HasDropIn bool

	// Tables holds the outer HTML of every table on the page, in document order.
	Tables []string
}

// PageParser locates the structural elements of facility list pages and
// facility pages.
type PageParser interface {
	// PageCount returns the number of facility list pages advertised by the
	// pager of the first list page.
	PageCount(html string) (int, error)

	// FacilityLinks returns absolute facility URLs from one list page.
	// Relative links are resolved against baseURL.
	FacilityLinks(html string, baseURL string) ([]string, error)

	// ParseFacility extracts the title, drop-in marker and tables of a facility page.
	ParseFacility(html string) (*FacilityPage, error)
}
