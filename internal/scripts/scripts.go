// Package scripts renders the client-side loaders injected into page shells
// when pages are hydrated in the browser instead of on the server.
package scripts

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/bilgisen/titan/internal/feed"
	"github.com/bilgisen/titan/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	// RevealOffset is how far above the viewport bottom an element must
	// scroll before it is revealed, in pixels.
	RevealOffset = 150
	// CarouselInterval is the hero slide rotation period in milliseconds.
	CarouselInterval = 4000
)

// Generator renders script tags from the embedded templates.
type Generator struct {
	tmpl *template.Template
}

type bindingView struct {
	Feed         string
	Target       string
	URL          string
	DefaultImage string
	Param        string
	DetailPage   string
	Demo         bool
}

func New() (*Generator, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse script templates: %w", err)
	}
	return &Generator{tmpl: tmpl}, nil
}

type parserView struct {
	MinImage     int
	SummaryLimit int
}

// Parser returns the shared tokenizer and card helpers. The image and
// summary limits come from the feed package so both render paths agree.
func (g *Generator) Parser() (string, error) {
	return g.execute("parser", parserView{
		MinImage:     feed.MinImageLength,
		SummaryLimit: feed.SummaryLimit,
	})
}

// Loader returns the list or detail loader for one binding. Feed URL and
// fallback image are emitted as escaped JS string literals.
func (g *Generator) Loader(b models.Binding, demo bool) (string, error) {
	view := bindingView{
		Feed:         string(b.Feed),
		Target:       b.Target,
		URL:          b.URL,
		DefaultImage: b.DefaultImage,
		Param:        b.Param,
		DetailPage:   b.DetailPage,
		Demo:         demo,
	}
	switch b.View {
	case models.ViewList:
		return g.execute("list", view)
	case models.ViewDetail:
		return g.execute("detail", view)
	default:
		return "", fmt.Errorf("unknown view %q", b.View)
	}
}

// Reveal returns the scroll-reveal effect.
func (g *Generator) Reveal() (string, error) {
	return g.execute("reveal", struct{ Offset int }{RevealOffset})
}

// Carousel returns the hero slide rotation.
func (g *Generator) Carousel() (string, error) {
	return g.execute("carousel", struct{ Interval int }{CarouselInterval})
}

// Bundle returns the parser followed by one loader per binding and the
// page effects. Bindings without a feed URL are left out.
func (g *Generator) Bundle(bindings []models.Binding, demo bool) (string, error) {
	var buf bytes.Buffer

	loaders := 0
	for _, b := range bindings {
		if b.URL == "" {
			continue
		}
		if loaders == 0 {
			parser, err := g.Parser()
			if err != nil {
				return "", err
			}
			buf.WriteString(parser)
		}
		loader, err := g.Loader(b, demo)
		if err != nil {
			return "", err
		}
		buf.WriteString(loader)
		loaders++
	}

	for _, effect := range []func() (string, error){g.Reveal, g.Carousel} {
		out, err := effect()
		if err != nil {
			return "", err
		}
		buf.WriteString(out)
	}
	return buf.String(), nil
}

func (g *Generator) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := g.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s script: %w", name, err)
	}
	return buf.String(), nil
}
