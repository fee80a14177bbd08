package models

import "strings"

// FeedRecord is one tokenized, non-header CSV row. Field meaning is positional
// and depends on the feed kind.
type FeedRecord []string

// Field returns the trimmed value at position i, or "" when the row is short.
func (r FeedRecord) Field(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[i])
}

// ID returns the record identifier (field 0).
func (r FeedRecord) ID() string {
	return r.Field(0)
}

// Addressable reports whether the record has a non-empty identifier.
func (r FeedRecord) Addressable() bool {
	return r.ID() != ""
}

// FeedKind selects the positional schema of a feed.
type FeedKind string

const (
	KindPortfolio FeedKind = "portfolio"
	KindBlog      FeedKind = "blog"
)

// Valid reports whether k is a known feed kind.
func (k FeedKind) Valid() bool {
	return k == KindPortfolio || k == KindBlog
}
