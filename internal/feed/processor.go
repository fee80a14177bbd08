package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bilgisen/titan/internal/logger"
	"github.com/bilgisen/titan/internal/models"
	"github.com/bilgisen/titan/internal/page"
)

// Outcome describes what happened to one binding during hydration.
type Outcome string

const (
	OutcomeRendered Outcome = "rendered"
	OutcomeNoTarget Outcome = "no_target"
	OutcomeNoSource Outcome = "no_source"
	OutcomeNoMatch  Outcome = "no_match"
	OutcomeFailed   Outcome = "failed"
)

// Result is the outcome of one binding.
type Result struct {
	Binding models.Binding
	Outcome Outcome
	Records int
	Err     error
}

// Report collects the results of one hydration pass in binding order.
type Report struct {
	Results  []Result
	Fetches  int
	Duration time.Duration
}

// Count returns how many bindings ended with outcome o.
func (r Report) Count(o Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}

// Request carries the per page load inputs.
type Request struct {
	// Query returns the value of a query parameter, "" when absent.
	Query   func(key string) string
	PageURL string
	Demo    bool
}

func (r Request) param(key string) string {
	if r.Query == nil || key == "" {
		return ""
	}
	return r.Query(key)
}

type fetched struct {
	records []models.FeedRecord
	err     error
}

// Processor runs the fetch, project and render pipeline against a page.
type Processor struct {
	fetcher   FetcherInterface
	projector *Projector
	renderer  *Renderer
}

func NewProcessor(fetcher FetcherInterface) *Processor {
	if fetcher == nil {
		fetcher = NewFetcher()
	}
	return &Processor{
		fetcher:   fetcher,
		projector: NewProjector(),
		renderer:  NewRenderer(),
	}
}

// Records fetches a feed and returns its addressable records.
func (p *Processor) Records(ctx context.Context, url string) ([]models.FeedRecord, error) {
	body, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return p.projector.Records(body), nil
}

// Hydrate fills every render target of doc that has a binding. Feed problems
// never escape: a failing binding leaves its target untouched and the others
// still run. Each feed URL is fetched at most once per call.
func (p *Processor) Hydrate(ctx context.Context, doc *page.Document, bindings []models.Binding, req Request) Report {
	start := time.Now()

	report := Report{Results: make([]Result, 0, len(bindings))}
	feeds := make(map[string]*fetched)

	for _, b := range bindings {
		res := p.hydrateOne(ctx, doc, b, req, feeds, &report)
		report.Results = append(report.Results, res)

		ev := logger.Debug()
		if res.Outcome == OutcomeFailed {
			ev = logger.Warn().Err(res.Err)
		}
		ev.Str("feed", string(b.Feed)).
			Str("view", string(b.View)).
			Str("target", b.Target).
			Str("url", b.URL).
			Str("outcome", string(res.Outcome)).
			Int("records", res.Records).
			Msg("Hydrated binding")
	}

	report.Duration = time.Since(start)
	logger.Debug().
		Int("bindings", len(bindings)).
		Int("fetches", report.Fetches).
		Int("rendered", report.Count(OutcomeRendered)).
		Int("failed", report.Count(OutcomeFailed)).
		Dur("duration", report.Duration).
		Msg("Finished hydrating page")

	return report
}

func (p *Processor) hydrateOne(ctx context.Context, doc *page.Document, b models.Binding, req Request, feeds map[string]*fetched, report *Report) (res Result) {
	res = Result{Binding: b}

	defer func() {
		if r := recover(); r != nil {
			res.Outcome = OutcomeFailed
			res.Err = fmt.Errorf("panic while rendering %s: %v", b.Target, r)
		}
	}()

	if !doc.Has(b.Target) {
		res.Outcome = OutcomeNoTarget
		return res
	}
	if b.URL == "" {
		res.Outcome = OutcomeNoSource
		return res
	}

	id := ""
	if b.View == models.ViewDetail {
		id = req.param(b.Param)
		if id == "" && !req.Demo {
			res.Outcome = OutcomeNoMatch
			return res
		}
	}

	f, ok := feeds[b.URL]
	if !ok {
		records, err := p.Records(ctx, b.URL)
		f = &fetched{records: records, err: err}
		feeds[b.URL] = f
		report.Fetches++
	}
	if f.err != nil {
		res.Outcome = OutcomeFailed
		res.Err = f.err
		if errors.Is(f.err, ErrNoSource) {
			res.Outcome = OutcomeNoSource
		}
		return res
	}
	res.Records = len(f.records)

	var (
		fragment string
		err      error
	)
	switch b.View {
	case models.ViewList:
		fragment, err = p.renderer.RenderList(b, f.records)
	case models.ViewDetail:
		rec, found := Resolve(f.records, id, req.Demo)
		if !found {
			res.Outcome = OutcomeNoMatch
			return res
		}
		fragment, err = p.renderer.RenderDetail(b, rec, req.PageURL)
	default:
		err = fmt.Errorf("unknown view %q", b.View)
	}
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Err = err
		return res
	}

	doc.Replace(b.Target, fragment)
	res.Outcome = OutcomeRendered
	return res
}
