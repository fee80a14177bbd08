// Package site loads the site configuration record shared by page shells,
// generated scripts and the server-side pipeline.
package site

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/bilgisen/titan/internal/models"
)

var validate = validator.New()

// Default render targets and routing for each feed kind.
var (
	PortfolioDefaults = models.FeedSource{
		ListTarget:   "inv-grid",
		DetailTarget: "product-detail",
		Param:        "item",
		DetailPage:   "product.html",
	}
	BlogDefaults = models.FeedSource{
		ListTarget:   "blog-grid",
		DetailTarget: "post-detail",
		Param:        "id",
		DetailPage:   "post.html",
	}
)

// Load reads the site record from a YAML file.
func Load(path string) (*models.Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read site config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML site record, applies defaults and validates it.
func Parse(data []byte) (*models.Site, error) {
	var s models.Site
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode site config: %w", err)
	}
	ApplyDefaults(&s)
	if err := Validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ApplyDefaults fills unset routing fields and normalises values.
func ApplyDefaults(s *models.Site) {
	s.Name = strings.TrimSpace(s.Name)
	s.BaseURL = strings.TrimRight(strings.TrimSpace(s.BaseURL), "/")
	if s.RenderMode == "" {
		s.RenderMode = models.RenderServer
	}
	fill(&s.Portfolio, PortfolioDefaults)
	fill(&s.Blog, BlogDefaults)
}

func fill(src *models.FeedSource, def models.FeedSource) {
	src.URL = strings.TrimSpace(src.URL)
	src.DefaultImage = strings.TrimSpace(src.DefaultImage)
	if src.ListTarget == "" {
		src.ListTarget = def.ListTarget
	}
	if src.DetailTarget == "" {
		src.DetailTarget = def.DetailTarget
	}
	if src.Param == "" {
		src.Param = def.Param
	}
	if src.DetailPage == "" {
		src.DetailPage = def.DetailPage
	}
}

// Validate checks the record's struct tags and reports each failing field.
func Validate(s *models.Site) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid site config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid site config: %s", strings.Join(msgs, "; "))
}
