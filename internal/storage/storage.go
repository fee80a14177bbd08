package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/natefinch/atomic"
)

// ErrPageNotFound is returned when no store holds the requested page.
var ErrPageNotFound = errors.New("page not found")

// ErrInvalidName is returned for page names that could escape the store.
var ErrInvalidName = errors.New("invalid page name")

// PageInfo describes a stored page shell.
type PageInfo struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	Updated time.Time `json:"updated"`
	Source  string    `json:"source"`
}

// PageStore holds the page shells produced by the site generator.
type PageStore interface {
	GetPage(ctx context.Context, name string) (string, error)
	SavePage(ctx context.Context, name, html string) error
	ListPages(ctx context.Context) ([]PageInfo, error)
	DeletePage(ctx context.Context, name string) error
}

// CleanName normalises a page name to a flat "<name>.html" file name.
func CleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "/")
	if name == "" {
		name = "index"
	}
	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if !strings.HasSuffix(name, ".html") {
		name += ".html"
	}
	return name, nil
}

// FileStore keeps page shells as files under a directory.
type FileStore struct {
	basePath string
	mu       sync.RWMutex
}

func NewFileStore(basePath string) (*FileStore, error) {
	pagesPath := filepath.Join(basePath, "pages")
	if err := os.MkdirAll(pagesPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &FileStore{
		basePath: pagesPath,
	}, nil
}

// GetPage reads a page shell from disk.
func (s *FileStore) GetPage(ctx context.Context, name string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	name, err := CleanName(name)
	if err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(filepath.Join(s.basePath, name))
	if errors.Is(err, fs.ErrNotExist) {
		return "", ErrPageNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read page %s: %w", name, err)
	}
	return string(data), nil
}

// SavePage writes a page shell. Readers never observe a partial file.
func (s *FileStore) SavePage(ctx context.Context, name, html string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	name, err := CleanName(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := atomic.WriteFile(filepath.Join(s.basePath, name), strings.NewReader(html)); err != nil {
		return fmt.Errorf("failed to write page %s: %w", name, err)
	}
	return nil
}

// ListPages returns stored pages sorted by name.
func (s *FileStore) ListPages(ctx context.Context) ([]PageInfo, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}

	pages := make([]PageInfo, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".html") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("failed to stat page %s: %w", e.Name(), err)
		}
		pages = append(pages, PageInfo{
			Name:    e.Name(),
			Size:    info.Size(),
			Updated: info.ModTime(),
			Source:  "file",
		})
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].Name < pages[j].Name })
	return pages, nil
}

// DeletePage removes a page shell.
func (s *FileStore) DeletePage(ctx context.Context, name string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	name, err := CleanName(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = os.Remove(filepath.Join(s.basePath, name))
	if errors.Is(err, fs.ErrNotExist) {
		return ErrPageNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete page %s: %w", name, err)
	}
	return nil
}
