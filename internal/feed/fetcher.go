package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrNoSource is returned when a feed has no configured URL.
var ErrNoSource = errors.New("feed: no source configured")

// fetchTimeout bounds a single attempt so a stalled origin cannot pin a request.
const fetchTimeout = 30 * time.Second

// FetcherInterface retrieves the raw body of a feed.
type FetcherInterface interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Fetcher downloads CSV feeds. Every call performs exactly one attempt.
type Fetcher struct {
	client *resty.Client
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		client: resty.New().
			SetTimeout(fetchTimeout).
			SetRetryCount(0).
			SetHeader("Accept", "text/csv, text/plain;q=0.9, */*;q=0.5"),
	}
}

// Fetch retrieves the feed at url as text.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if strings.TrimSpace(url) == "" {
		return "", ErrNoSource
	}

	resp, err := f.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch feed from %s: %w", url, err)
	}

	if !resp.IsSuccess() {
		return "", fmt.Errorf("unexpected status code %d from %s", resp.StatusCode(), url)
	}

	return string(resp.Body()), nil
}
