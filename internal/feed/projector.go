package feed

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/bilgisen/titan/internal/models"
)

const (
	// SummaryLimit is the rune budget for card summaries.
	SummaryLimit = 60
	// Ellipsis is appended to truncated summaries.
	Ellipsis = "..."
	// MinImageLength is the rune count below which a portfolio image value
	// is treated as absent.
	MinImageLength = 6
)

// Projector turns raw feed text into records and named projections.
type Projector struct {
	lineBreak *regexp.Regexp
}

func NewProjector() *Projector {
	return &Projector{
		lineBreak: regexp.MustCompile(`\r\n|\n`),
	}
}

// SplitLines splits body on CRLF or LF line endings.
func (p *Projector) SplitLines(body string) []string {
	return p.lineBreak.Split(body, -1)
}

// Rows drops the header line, skips blank lines and tokenizes the rest.
// A feed with N non-blank data rows yields N rows.
func (p *Projector) Rows(body string) []models.FeedRecord {
	lines := p.SplitLines(body)
	if len(lines) <= 1 {
		return []models.FeedRecord{}
	}

	rows := make([]models.FeedRecord, 0, len(lines)-1)
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, models.FeedRecord(ParseLine(line)))
	}
	return rows
}

// Records returns the rows that have a non-empty identifier, in feed order.
func (p *Projector) Records(body string) []models.FeedRecord {
	rows := p.Rows(body)
	records := rows[:0]
	for _, row := range rows {
		if row.Addressable() {
			records = append(records, row)
		}
	}
	return records
}

// ProjectPortfolio maps a portfolio row onto named fields.
func ProjectPortfolio(rec models.FeedRecord, defaultImage string) models.PortfolioItem {
	image := rec.Field(3)
	if utf8.RuneCountInString(image) < MinImageLength {
		image = defaultImage
	}
	return models.PortfolioItem{
		Name:        rec.Field(0),
		Price:       rec.Field(1),
		Description: rec.Field(2),
		Image:       image,
	}
}

// ProjectBlog maps a blog row onto named fields.
func ProjectBlog(rec models.FeedRecord, defaultImage string) models.BlogPost {
	return models.BlogPost{
		Slug:     rec.Field(0),
		Title:    firstNonEmpty(rec.Field(1), rec.Field(0)),
		Date:     rec.Field(2),
		Category: rec.Field(3),
		Summary:  rec.Field(4),
		Image:    firstNonEmpty(rec.Field(5), defaultImage),
		Body:     rec.Field(6),
	}
}

// Truncate caps s at limit runes and appends Ellipsis when it cut anything.
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + Ellipsis
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
