package goquery_test

import (
	"testing"

	"github.com/ottawa-dropin/dropin"
	"github.com/ottawa-dropin/dropin/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listPage = `<!DOCTYPE html>
<html>
<body>
<table>
<thead><tr><th>Name</th><th>Address</th></tr></thead>
<tbody>
	<tr><td><a href="/en/facility/brewer-pool">Brewer Pool</a></td><td>100 Brewer Way</td></tr>
	<tr><td>No link here</td></tr>
	<tr><td><a href="https://ottawa.ca/en/facility/minto-arena">Minto Arena</a></td></tr>
	<tr><td><a href="mailto:info@ottawa.ca">Email</a></td></tr>
</tbody>
</table>
<nav>
<ul class="pager__items js-pager__items">
	<li class="pager__item"><a href="?page=0">1</a></li>
	<li class="pager__item"><a href="?page=1">2</a></li>
	<li class="pager__item"><a href="?page=2">3</a></li>
	<li class="pager__item pager__item--next"><a href="?page=1">Next</a></li>
</ul>
</nav>
</body>
</html>`

const facilityPage = `<!DOCTYPE html>
<html>
<body>
<h1 class="page-title"><span class="field field--name-title">Brewer&nbsp;Pool
  </span></h1>
<button class="accordion">Drop-in schedule - swimming</button>
<table class="table"><tr><th>Monday</th></tr><tr><td>7 - 8 am</td></tr></table>
<p>Other text</p>
<table><tr><td>Aquafit</td></tr></table>
</body>
</html>`

func TestParser_PageCount(t *testing.T) {
	t.Parallel()

	t.Run("counts pager items minus the next link", func(t *testing.T) {
		t.Parallel()

		n, err := goquery.NewParser().PageCount(listPage)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
	})

	t.Run("returns ENOTFOUND without pager", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.NewParser().PageCount(`<html><body></body></html>`)
		require.Error(t, err)
		assert.Equal(t, dropin.ENOTFOUND, dropin.ErrorCode(err))
	})

	t.Run("empty pager has no pages", func(t *testing.T) {
		t.Parallel()

		n, err := goquery.NewParser().PageCount(`<ul class="pager__items"></ul>`)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})
}

func TestParser_FacilityLinks(t *testing.T) {
	t.Parallel()

	t.Run("resolves row links against base URL", func(t *testing.T) {
		t.Parallel()

		links, err := goquery.NewParser().FacilityLinks(listPage, "https://ottawa.ca")
		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://ottawa.ca/en/facility/brewer-pool",
			"https://ottawa.ca/en/facility/minto-arena",
		}, links)
	})

	t.Run("returns nothing without table body", func(t *testing.T) {
		t.Parallel()

		links, err := goquery.NewParser().FacilityLinks(`<p><a href="/x">x</a></p>`, "https://ottawa.ca")
		require.NoError(t, err)
		assert.Empty(t, links)
	})

	t.Run("rejects invalid base URL", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.NewParser().FacilityLinks(listPage, "://bad")
		require.Error(t, err)
		assert.Equal(t, dropin.EINVALID, dropin.ErrorCode(err))
	})
}

func TestParser_ParseFacility(t *testing.T) {
	t.Parallel()

	t.Run("extracts title, drop-in marker and tables", func(t *testing.T) {
		t.Parallel()

		page, err := goquery.NewParser().ParseFacility(facilityPage)
		require.NoError(t, err)

		assert.Equal(t, "Brewer Pool", page.Title)
		assert.True(t, page.HasDropIn)
		require.Len(t, page.Tables, 2)
		assert.Contains(t, page.Tables[0], `<table class="table">`)
		assert.Contains(t, page.Tables[0], "7 - 8 am")
		assert.Contains(t, page.Tables[1], "Aquafit")
		assert.NotContains(t, page.Tables[0], "Other text")
	})

	t.Run("drop-in marker is case insensitive", func(t *testing.T) {
		t.Parallel()

		page, err := goquery.NewParser().ParseFacility(`<button>DROP-IN</button>`)
		require.NoError(t, err)
		assert.True(t, page.HasDropIn)
	})

	t.Run("page without drop-in button", func(t *testing.T) {
		t.Parallel()

		page, err := goquery.NewParser().ParseFacility(`<h1 class="page-title"><span class="field--name-title">Library</span></h1><button>Book a room</button><table></table>`)
		require.NoError(t, err)
		assert.Equal(t, "Library", page.Title)
		assert.False(t, page.HasDropIn)
	})

	t.Run("page without title", func(t *testing.T) {
		t.Parallel()

		page, err := goquery.NewParser().ParseFacility(`<button>Drop-in</button>`)
		require.NoError(t, err)
		assert.Empty(t, page.Title)
		assert.Empty(t, page.Tables)
	})
}
