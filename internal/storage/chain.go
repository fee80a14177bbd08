package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// Chain reads from each store in turn and writes to the first one.
type Chain struct {
	stores []PageStore
}

// NewChain builds a chain; the first store receives all writes.
func NewChain(primary PageStore, fallbacks ...PageStore) *Chain {
	return &Chain{stores: append([]PageStore{primary}, fallbacks...)}
}

// GetPage returns the page from the first store that has it.
func (c *Chain) GetPage(ctx context.Context, name string) (string, error) {
	for _, s := range c.stores {
		html, err := s.GetPage(ctx, name)
		if err == nil {
			return html, nil
		}
		if !errors.Is(err, ErrPageNotFound) {
			return "", err
		}
	}
	return "", ErrPageNotFound
}

func (c *Chain) SavePage(ctx context.Context, name, html string) error {
	return c.stores[0].SavePage(ctx, name, html)
}

func (c *Chain) DeletePage(ctx context.Context, name string) error {
	return c.stores[0].DeletePage(ctx, name)
}

// ListPages merges the listings; a name reported by an earlier store hides later ones.
func (c *Chain) ListPages(ctx context.Context) ([]PageInfo, error) {
	seen := make(map[string]bool)
	var pages []PageInfo
	for _, s := range c.stores {
		list, err := s.ListPages(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list pages: %w", err)
		}
		for _, p := range list {
			if seen[p.Name] {
				continue
			}
			seen[p.Name] = true
			pages = append(pages, p)
		}
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Name < pages[j].Name })
	return pages, nil
}
