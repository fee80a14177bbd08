package models

// Render modes for generated pages.
const (
	RenderServer = "server"
	RenderClient = "client"
)

// Site is the configuration record handed from the page generator to the
// feed pipeline. It is loaded once and treated as read-only afterwards.
type Site struct {
	Name       string     `yaml:"name" json:"name" validate:"required"`
	BaseURL    string     `yaml:"base_url" json:"base_url" validate:"omitempty,url"`
	Demo       bool       `yaml:"demo" json:"demo"`
	RenderMode string     `yaml:"render_mode" json:"render_mode" validate:"omitempty,oneof=server client"`
	Portfolio  FeedSource `yaml:"portfolio" json:"portfolio"`
	Blog       FeedSource `yaml:"blog" json:"blog"`
}

// FeedSource configures one feed and the containers it renders into.
// An empty URL means the feed is not fetched.
type FeedSource struct {
	URL          string `yaml:"url" json:"url" validate:"omitempty,url"`
	DefaultImage string `yaml:"default_image" json:"default_image" validate:"omitempty,url"`
	ListTarget   string `yaml:"list_target" json:"list_target" validate:"omitempty,max=64"`
	DetailTarget string `yaml:"detail_target" json:"detail_target" validate:"omitempty,max=64"`
	Param        string `yaml:"param" json:"param" validate:"omitempty,max=32"`
	DetailPage   string `yaml:"detail_page" json:"detail_page" validate:"omitempty,max=128"`
}

// ViewKind distinguishes collection views from single-record views.
type ViewKind string

const (
	ViewList   ViewKind = "list"
	ViewDetail ViewKind = "detail"
)

// Binding ties one feed to one render target on a page.
type Binding struct {
	Feed         FeedKind
	View         ViewKind
	Target       string
	URL          string
	DefaultImage string
	// Param is the query parameter carrying the identifier (detail views).
	Param string
	// DetailPage is the page list cards link to (list views).
	DetailPage string
}

// Bindings expands the site record into list and detail bindings for every feed kind.
func (s *Site) Bindings() []Binding {
	var out []Binding
	for _, kind := range []FeedKind{KindPortfolio, KindBlog} {
		src := s.Source(kind)
		out = append(out,
			Binding{
				Feed:         kind,
				View:         ViewList,
				Target:       src.ListTarget,
				URL:          src.URL,
				DefaultImage: src.DefaultImage,
				Param:        src.Param,
				DetailPage:   src.DetailPage,
			},
			Binding{
				Feed:         kind,
				View:         ViewDetail,
				Target:       src.DetailTarget,
				URL:          src.URL,
				DefaultImage: src.DefaultImage,
				Param:        src.Param,
				DetailPage:   src.DetailPage,
			},
		)
	}
	return out
}

// Source returns the feed source for kind.
func (s *Site) Source(kind FeedKind) FeedSource {
	if kind == KindBlog {
		return s.Blog
	}
	return s.Portfolio
}
