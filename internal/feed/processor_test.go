package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bilgisen/titan/internal/models"
	"github.com/bilgisen/titan/internal/page"
)

const (
	listShell = `<html><body><h1>Shop</h1><div id="inv-grid"><p>Loading...</p></div></body></html>`

	detailShell = `<html><body><div id="product-detail"><p>Loading...</p></div></body></html>`

	bothShell = `<html><body><div id="inv-grid"><p>Loading...</p></div><div id="product-detail"><p>Loading...</p></div></body></html>`

	feedBody = "name,price,description,image\n" +
		"Alpha,$10,First,https://img.example.com/a.png\n" +
		"Beta,$20,Second,https://img.example.com/b.png\n" +
		"Alpha,$99,Shadowed,https://img.example.com/c.png\n"
)

type stubFetcher struct {
	body  string
	err   error
	calls int
}

func (s *stubFetcher) Fetch(ctx context.Context, url string) (string, error) {
	s.calls++
	return s.body, s.err
}

type panicFetcher struct{}

func (panicFetcher) Fetch(ctx context.Context, url string) (string, error) {
	panic("boom")
}

func bindings(url string) []models.Binding {
	site := models.Site{
		Name: "Shop",
		Portfolio: models.FeedSource{
			URL:          url,
			DefaultImage: "https://img.example.com/default.png",
			ListTarget:   "inv-grid",
			DetailTarget: "product-detail",
			Param:        "item",
			DetailPage:   "product.html",
		},
		Blog: models.FeedSource{
			URL:          "https://feeds.example.com/blog.csv",
			ListTarget:   "blog-grid",
			DetailTarget: "post-detail",
			Param:        "id",
			DetailPage:   "post.html",
		},
	}
	return site.Bindings()
}

func query(values map[string]string) func(string) string {
	return func(k string) string { return values[k] }
}

func mustParse(t *testing.T, html string) *page.Document {
	t.Helper()
	doc, err := page.ParseString(html)
	require.NoError(t, err)
	return doc
}

func TestHydrateList(t *testing.T) {
	fetcher := &stubFetcher{body: feedBody}
	doc := mustParse(t, listShell)

	report := NewProcessor(fetcher).Hydrate(context.Background(), doc, bindings("https://feeds.example.com/p.csv"), Request{})

	assert.Equal(t, 1, fetcher.calls)
	assert.Equal(t, 1, report.Fetches)
	assert.Equal(t, 1, report.Count(OutcomeRendered))
	assert.Equal(t, 3, report.Count(OutcomeNoTarget))

	content, ok := doc.Content("inv-grid")
	require.True(t, ok)
	assert.NotContains(t, content, "Loading...")
	assert.Equal(t, 3, strings.Count(content, `class="card reveal"`))
}

func TestHydrateMissingTargetSkipsFetch(t *testing.T) {
	fetcher := &stubFetcher{body: feedBody}
	doc := mustParse(t, `<html><body><p>nothing here</p></body></html>`)

	report := NewProcessor(fetcher).Hydrate(context.Background(), doc, bindings("https://feeds.example.com/p.csv"), Request{})

	assert.Equal(t, 0, fetcher.calls)
	assert.Equal(t, 4, report.Count(OutcomeNoTarget))
}

func TestHydrateNoSource(t *testing.T) {
	fetcher := &stubFetcher{body: feedBody}
	doc := mustParse(t, listShell)

	report := NewProcessor(fetcher).Hydrate(context.Background(), doc, bindings(""), Request{})

	assert.Equal(t, 0, fetcher.calls)
	assert.Equal(t, 1, report.Count(OutcomeNoSource))
	content, _ := doc.Content("inv-grid")
	assert.Equal(t, "<p>Loading...</p>", content)
}

func TestHydrateFetchFailureLeavesTarget(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("network down")}
	doc := mustParse(t, bothShell)

	report := NewProcessor(fetcher).Hydrate(context.Background(), doc, bindings("https://feeds.example.com/p.csv"), Request{Query: query(map[string]string{"item": "Alpha"})})

	assert.Equal(t, 1, fetcher.calls)
	assert.Equal(t, 2, report.Count(OutcomeFailed))
	for _, id := range []string{"inv-grid", "product-detail"} {
		content, _ := doc.Content(id)
		assert.Equal(t, "<p>Loading...</p>", content, id)
	}
}

func TestHydrateSharesOneFetchPerFeed(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		_, _ = w.Write([]byte(feedBody))
	}))
	defer srv.Close()

	doc := mustParse(t, bothShell)
	report := NewProcessor(NewFetcher()).Hydrate(context.Background(), doc, bindings(srv.URL), Request{Query: query(map[string]string{"item": "Beta"})})

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	assert.Equal(t, 2, report.Count(OutcomeRendered))

	detail, _ := doc.Content("product-detail")
	assert.Contains(t, detail, "<h1>Beta</h1>")
}

func TestHydrateDetailFirstMatchWins(t *testing.T) {
	doc := mustParse(t, detailShell)
	NewProcessor(&stubFetcher{body: feedBody}).Hydrate(context.Background(), doc, bindings("https://feeds.example.com/p.csv"), Request{
		Query:   query(map[string]string{"item": "Alpha"}),
		PageURL: "https://shop.example.com/product.html?item=Alpha",
	})

	detail, _ := doc.Content("product-detail")
	assert.Contains(t, detail, "$10")
	assert.NotContains(t, detail, "$99")
	assert.Contains(t, detail, "https://wa.me/?text=Alpha%20https%3A%2F%2Fshop.example.com")
}

func TestHydrateDetailNoMatch(t *testing.T) {
	fetcher := &stubFetcher{body: feedBody}
	doc := mustParse(t, detailShell)

	report := NewProcessor(fetcher).Hydrate(context.Background(), doc, bindings("https://feeds.example.com/p.csv"), Request{
		Query: query(map[string]string{"item": "Nope"}),
	})

	assert.Equal(t, 1, report.Count(OutcomeNoMatch))
	detail, _ := doc.Content("product-detail")
	assert.Equal(t, "<p>Loading...</p>", detail)
}

func TestHydrateDetailWithoutIdentifier(t *testing.T) {
	fetcher := &stubFetcher{body: feedBody}
	doc := mustParse(t, detailShell)

	report := NewProcessor(fetcher).Hydrate(context.Background(), doc, bindings("https://feeds.example.com/p.csv"), Request{})

	assert.Equal(t, 0, fetcher.calls)
	assert.Equal(t, 1, report.Count(OutcomeNoMatch))
	detail, _ := doc.Content("product-detail")
	assert.Equal(t, "<p>Loading...</p>", detail)
}

func TestHydrateDemoSelectsFirstRecord(t *testing.T) {
	doc := mustParse(t, detailShell)

	report := NewProcessor(&stubFetcher{body: feedBody}).Hydrate(context.Background(), doc, bindings("https://feeds.example.com/p.csv"), Request{Demo: true})

	assert.Equal(t, 1, report.Count(OutcomeRendered))
	detail, _ := doc.Content("product-detail")
	assert.Contains(t, detail, "<h1>Alpha</h1>")
	assert.Contains(t, detail, "$10")
}

func TestHydrateRecoversFromPanic(t *testing.T) {
	doc := mustParse(t, listShell)

	report := NewProcessor(panicFetcher{}).Hydrate(context.Background(), doc, bindings("https://feeds.example.com/p.csv"), Request{})

	assert.Equal(t, 1, report.Count(OutcomeFailed))
	content, _ := doc.Content("inv-grid")
	assert.Equal(t, "<p>Loading...</p>", content)
}
