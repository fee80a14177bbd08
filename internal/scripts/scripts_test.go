package scripts

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilgisen/titan/internal/feed"
	"github.com/bilgisen/titan/internal/models"
)

func listBinding() models.Binding {
	return models.Binding{
		Feed:         models.KindPortfolio,
		View:         models.ViewList,
		Target:       "inv-grid",
		URL:          "https://docs.example.com/sheet.csv?output=csv",
		DefaultImage: "https://img.example.com/default.png",
		Param:        "item",
		DetailPage:   "product.html",
	}
}

func TestParser(t *testing.T) {
	g, err := New()
	require.NoError(t, err)

	out, err := g.Parser()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<script>"))
	assert.Contains(t, out, "function parseCSVLine(line)")
	assert.Contains(t, out, "https://wa.me/?text=")
}

func TestParserSharesProjectionLimits(t *testing.T) {
	g, err := New()
	require.NoError(t, err)

	out, err := g.Parser()
	require.NoError(t, err)
	assert.Regexp(t, fmt.Sprintf(`var feedMinImage =\s*%d\s*;`, feed.MinImageLength), out)
	assert.Regexp(t, fmt.Sprintf(`var feedSummaryLimit =\s*%d\s*;`, feed.SummaryLimit), out)
	assert.Contains(t, out, "Array.from(src).length < feedMinImage")
	assert.Equal(t, 2, strings.Count(out, "feedImageOr(feedField(r, 3), o.fallback)"))
	assert.Equal(t, 2, strings.Count(out, "feedTruncate(feedField(r, 2), feedSummaryLimit)")+
		strings.Count(out, "feedTruncate(feedField(r, 4), feedSummaryLimit)"))
	assert.NotRegexp(t, `\.length < \d`, out)
}

func TestLoaderEscapesValues(t *testing.T) {
	g, err := New()
	require.NoError(t, err)

	b := listBinding()
	b.URL = `https://evil.example.com/"</script><script>alert(1)</script>`

	out, err := g.Loader(b, false)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "</script>"))
	assert.NotContains(t, out, "<script>alert(1)")
}

func TestLoaderDetail(t *testing.T) {
	g, err := New()
	require.NoError(t, err)

	b := listBinding()
	b.View = models.ViewDetail
	b.Target = "product-detail"

	out, err := g.Loader(b, true)
	require.NoError(t, err)
	assert.Contains(t, out, `"product-detail"`)
	assert.Contains(t, out, "feedDetails[")
	assert.Regexp(t, `var demo =\s*true\s*;`, out)
}

func TestBundle(t *testing.T) {
	g, err := New()
	require.NoError(t, err)

	site := models.Site{
		Portfolio: models.FeedSource{URL: "https://docs.example.com/p.csv", ListTarget: "inv-grid", DetailTarget: "product-detail", Param: "item", DetailPage: "product.html"},
		Blog:      models.FeedSource{ListTarget: "blog-grid", DetailTarget: "post-detail", Param: "id", DetailPage: "post.html"},
	}

	out, err := g.Bundle(site.Bindings(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "function parseCSVLine"))
	assert.Equal(t, 1, strings.Count(out, "feedCards["))
	assert.Equal(t, 1, strings.Count(out, "feedDetails["))
	assert.Contains(t, out, ".carousel-slide")
	assert.Contains(t, out, ".reveal")

	empty, err := g.Bundle(nil, false)
	require.NoError(t, err)
	assert.NotContains(t, empty, "parseCSVLine")
	assert.Contains(t, empty, ".reveal")
}
