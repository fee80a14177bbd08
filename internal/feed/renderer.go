package feed

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"

	"github.com/bilgisen/titan/internal/models"
)

// Broken images swap to the URL held in data-fallback.
var cardTemplates = template.Must(template.New("cards").Parse(`
{{define "portfolio-card"}}<div class="card reveal"><img src="{{.Image}}" class="prod-img" loading="lazy" alt="{{.Name}}" data-fallback="{{.Fallback}}" onerror="this.onerror=null;this.src=this.dataset.fallback;"><div class="card-body"><h3>{{.Name}}</h3><p class="price">{{.Price}}</p><p class="summary">{{.Summary}}</p></div><a href="{{.Link}}" class="btn">View Details</a></div>{{end}}
{{define "blog-card"}}<div class="card reveal"><img src="{{.Image}}" class="blog-img" loading="lazy" alt="{{.Title}}" data-fallback="{{.Fallback}}" onerror="this.onerror=null;this.src=this.dataset.fallback;"><div class="card-body"><span class="tag">{{.Category}}</span> <small class="date">{{.Date}}</small><h3>{{.Title}}</h3><p class="summary">{{.Summary}}</p></div><a href="{{.Link}}" class="btn">Read More</a></div>{{end}}
{{define "portfolio-detail"}}<div class="detail"><img src="{{.Image}}" class="detail-img" alt="{{.Name}}" data-fallback="{{.Fallback}}" onerror="this.onerror=null;this.src=this.dataset.fallback;"><div class="detail-body"><h1>{{.Name}}</h1><p class="price">{{.Price}}</p><div class="desc">{{.Description}}</div><a href="{{.Share}}" target="_blank" rel="noopener" class="btn btn-primary share">Get This Template</a></div></div>{{end}}
{{define "blog-detail"}}<article class="detail"><h1>{{.Title}}</h1><p class="meta"><span class="tag">{{.Category}}</span> <small class="date">{{.Date}}</small></p><img src="{{.Image}}" class="detail-img" alt="{{.Title}}" data-fallback="{{.Fallback}}" onerror="this.onerror=null;this.src=this.dataset.fallback;"><div class="post-body">{{.Body}}</div><a href="{{.Share}}" target="_blank" rel="noopener" class="btn btn-primary share">Share on WhatsApp</a></article>{{end}}
`))

type portfolioView struct {
	models.PortfolioItem
	Summary  string
	Fallback string
	Link     string
	Share    string
}

type blogView struct {
	models.BlogPost
	Summary  string
	Fallback string
	Link     string
	Share    string
	Body     template.HTML
}

// Renderer turns records into HTML fragments for render targets.
type Renderer struct {
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
}

func NewRenderer() *Renderer {
	return &Renderer{
		markdown: goldmark.New(),
		policy:   bluemonday.UGCPolicy(),
	}
}

// RenderList renders one card per record in feed order. Zero records
// produce an empty string.
func (r *Renderer) RenderList(b models.Binding, records []models.FeedRecord) (string, error) {
	var buf bytes.Buffer
	for _, rec := range records {
		var err error
		switch b.Feed {
		case models.KindPortfolio:
			item := ProjectPortfolio(rec, b.DefaultImage)
			err = cardTemplates.ExecuteTemplate(&buf, "portfolio-card", portfolioView{
				PortfolioItem: item,
				Summary:       Truncate(item.Description, SummaryLimit),
				Fallback:      b.DefaultImage,
				Link:          DetailLink(b.DetailPage, b.Param, rec.ID()),
			})
		case models.KindBlog:
			post := ProjectBlog(rec, b.DefaultImage)
			err = cardTemplates.ExecuteTemplate(&buf, "blog-card", blogView{
				BlogPost: post,
				Summary:  Truncate(post.Summary, SummaryLimit),
				Fallback: b.DefaultImage,
				Link:     DetailLink(b.DetailPage, b.Param, rec.ID()),
			})
		default:
			return "", fmt.Errorf("unknown feed kind %q", b.Feed)
		}
		if err != nil {
			return "", fmt.Errorf("failed to render %s card %q: %w", b.Feed, rec.ID(), err)
		}
	}
	return buf.String(), nil
}

// RenderDetail renders the full view of one record, including the share action.
func (r *Renderer) RenderDetail(b models.Binding, rec models.FeedRecord, pageURL string) (string, error) {
	var (
		buf bytes.Buffer
		err error
	)
	switch b.Feed {
	case models.KindPortfolio:
		item := ProjectPortfolio(rec, b.DefaultImage)
		err = cardTemplates.ExecuteTemplate(&buf, "portfolio-detail", portfolioView{
			PortfolioItem: item,
			Fallback:      b.DefaultImage,
			Share:         ShareLink(pageURL, item.Name),
		})
	case models.KindBlog:
		post := ProjectBlog(rec, b.DefaultImage)
		body, mdErr := r.renderBody(post.Body)
		if mdErr != nil {
			return "", mdErr
		}
		err = cardTemplates.ExecuteTemplate(&buf, "blog-detail", blogView{
			BlogPost: post,
			Fallback: b.DefaultImage,
			Share:    ShareLink(pageURL, post.Title),
			Body:     body,
		})
	default:
		return "", fmt.Errorf("unknown feed kind %q", b.Feed)
	}
	if err != nil {
		return "", fmt.Errorf("failed to render %s detail %q: %w", b.Feed, rec.ID(), err)
	}
	return buf.String(), nil
}

// renderBody converts markdown to HTML and strips anything outside the UGC policy.
func (r *Renderer) renderBody(src string) (template.HTML, error) {
	if strings.TrimSpace(src) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("failed to render post body: %w", err)
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes())), nil
}

// DetailLink builds the detail page address for one identifier.
func DetailLink(detailPage, param, id string) string {
	return detailPage + "?" + param + "=" + encodeComponent(id)
}

// ShareLink builds the WhatsApp share address carrying the title and page URL.
func ShareLink(pageURL, title string) string {
	return "https://wa.me/?text=" + encodeComponent(title+" "+pageURL)
}

// encodeComponent escapes s for use inside a query value, spaces as %20.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
