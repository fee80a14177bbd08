// Package page wraps a parsed HTML page shell and exposes its render targets.
package page

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/bilgisen/titan/internal/models"
)

// Document is a parsed page shell. It is not safe for concurrent use; parse
// a fresh Document per request.
type Document struct {
	doc *goquery.Document
}

// Parse reads an HTML document from r.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page: %w", err)
	}
	return &Document{doc: doc}, nil
}

// ParseString parses an HTML document held in memory.
func ParseString(html string) (*Document, error) {
	return Parse(strings.NewReader(html))
}

// Target returns the first element whose id equals id.
func (d *Document) Target(id string) (*goquery.Selection, bool) {
	if id == "" {
		return nil, false
	}
	sel := d.doc.Find("[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		v, _ := s.Attr("id")
		return v == id
	}).First()
	return sel, sel.Length() > 0
}

// Has reports whether the document contains a render target named id.
func (d *Document) Has(id string) bool {
	_, ok := d.Target(id)
	return ok
}

// Content returns the inner HTML of the target.
func (d *Document) Content(id string) (string, bool) {
	sel, ok := d.Target(id)
	if !ok {
		return "", false
	}
	html, err := sel.Html()
	if err != nil {
		return "", false
	}
	return html, true
}

// Replace clears the target and sets its content to fragment.
// It returns false when the target does not exist.
func (d *Document) Replace(id, fragment string) bool {
	sel, ok := d.Target(id)
	if !ok {
		return false
	}
	sel.Empty()
	sel.SetHtml(fragment)
	return true
}

// Inject appends snippet to the end of the body.
func (d *Document) Inject(snippet string) {
	body := d.doc.Find("body").First()
	if body.Length() == 0 {
		body = d.doc.Selection
	}
	body.AppendHtml(snippet)
}

// HTML serialises the whole document.
func (d *Document) HTML() (string, error) {
	html, err := goquery.OuterHtml(d.doc.Selection)
	if err != nil {
		return "", fmt.Errorf("failed to render page: %w", err)
	}
	return html, nil
}

// Present returns the bindings whose render target exists in the document.
func (d *Document) Present(bindings []models.Binding) []models.Binding {
	var out []models.Binding
	for _, b := range bindings {
		if d.Has(b.Target) {
			out = append(out, b)
		}
	}
	return out
}
