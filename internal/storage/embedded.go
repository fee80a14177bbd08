package storage

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
)

//go:embed shells/*.html
var shellFS embed.FS

// NotFoundPage is served for unknown page names.
const NotFoundPage = "404.html"

// EmbeddedStore serves the default page shells compiled into the binary.
// It is read-only.
type EmbeddedStore struct{}

func NewEmbeddedStore() *EmbeddedStore {
	return &EmbeddedStore{}
}

func (EmbeddedStore) GetPage(ctx context.Context, name string) (string, error) {
	name, err := CleanName(name)
	if err != nil {
		return "", err
	}
	data, err := shellFS.ReadFile(path.Join("shells", name))
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrPageNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read embedded page %s: %w", name, err)
	}
	return string(data), nil
}

func (EmbeddedStore) SavePage(ctx context.Context, name, html string) error {
	return fmt.Errorf("embedded pages are read-only: %s", name)
}

func (EmbeddedStore) DeletePage(ctx context.Context, name string) error {
	return fmt.Errorf("embedded pages are read-only: %s", name)
}

func (EmbeddedStore) ListPages(ctx context.Context) ([]PageInfo, error) {
	entries, err := shellFS.ReadDir("shells")
	if err != nil {
		return nil, fmt.Errorf("failed to list embedded pages: %w", err)
	}
	pages := make([]PageInfo, 0, len(entries))
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			return nil, err
		}
		pages = append(pages, PageInfo{Name: e.Name(), Size: info.Size(), Source: "embedded"})
	}
	return pages, nil
}
