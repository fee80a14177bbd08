package api

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/bilgisen/titan/internal/cache"
	"github.com/bilgisen/titan/internal/config"
	"github.com/bilgisen/titan/internal/feed"
	"github.com/bilgisen/titan/internal/logger"
	"github.com/bilgisen/titan/internal/models"
	"github.com/bilgisen/titan/internal/page"
	"github.com/bilgisen/titan/internal/scripts"
	"github.com/bilgisen/titan/internal/storage"
)

// SavePageRequest is the body of PUT /api/v1/admin/pages/:name
type SavePageRequest struct {
	HTML string `json:"html" validate:"required"`
}

// RecordsQuery holds the query of GET /api/v1/admin/feeds/:kind/records
type RecordsQuery struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=1000"`
}

type Handlers struct {
	config    *config.Config
	site      *models.Site
	redis     cache.RedisInterface
	pages     storage.PageStore
	processor *feed.Processor
	scripts   *scripts.Generator
}

func NewHandlers(cfg *config.Config, site *models.Site, redis cache.RedisInterface, pages storage.PageStore, processor *feed.Processor) (*Handlers, error) {
	gen, err := scripts.New()
	if err != nil {
		return nil, err
	}
	if processor == nil {
		processor = feed.NewProcessor(nil)
	}

	return &Handlers{
		config:    cfg,
		site:      site,
		redis:     redis,
		pages:     pages,
		processor: processor,
		scripts:   gen,
	}, nil
}

// HealthCheck handles the /health endpoint
func (h *Handlers) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":      "ok",
		"site":        h.site.Name,
		"render_mode": h.site.RenderMode,
		"time":        time.Now().Format(time.RFC3339),
	})
}

// ServePage handles GET / and GET /:page. The shell is hydrated on the server
// or given the client loaders, depending on the site's render mode.
func (h *Handlers) ServePage(c *fiber.Ctx) error {
	log := logger.Get()
	ctx := c.UserContext()

	status := fiber.StatusOK
	name, err := storage.CleanName(c.Params("page"))
	if err != nil {
		name, status = storage.NotFoundPage, fiber.StatusNotFound
	}

	shell, err := h.loadShell(ctx, name)
	if errors.Is(err, storage.ErrPageNotFound) {
		status = fiber.StatusNotFound
		name = storage.NotFoundPage
		shell, err = h.loadShell(ctx, name)
	}
	if err != nil {
		log.Error().Err(err).Str("page", name).Msg("Error loading page")
		return fiber.NewError(fiber.StatusInternalServerError)
	}

	doc, err := page.ParseString(shell)
	if err != nil {
		log.Error().Err(err).Str("page", name).Msg("Error parsing page")
		return fiber.NewError(fiber.StatusInternalServerError)
	}

	bindings := h.site.Bindings()
	if h.site.RenderMode == models.RenderClient {
		if err := h.injectScripts(doc, bindings); err != nil {
			log.Error().Err(err).Str("page", name).Msg("Error generating page scripts")
		}
	} else {
		h.processor.Hydrate(ctx, doc, bindings, feed.Request{
			Query:   func(key string) string { return c.Query(key) },
			PageURL: h.pageURL(c),
			Demo:    h.site.Demo,
		})
	}

	html, err := doc.HTML()
	if err != nil {
		log.Error().Err(err).Str("page", name).Msg("Error rendering page")
		return fiber.NewError(fiber.StatusInternalServerError)
	}

	c.Set(fiber.HeaderCacheControl, "no-store")
	c.Type("html", "utf-8")
	return c.Status(status).SendString(html)
}

// injectScripts adds loaders only for bindings whose target is on the page.
func (h *Handlers) injectScripts(doc *page.Document, bindings []models.Binding) error {
	bundle, err := h.scripts.Bundle(doc.Present(bindings), h.site.Demo)
	if err != nil {
		return err
	}
	doc.Inject(bundle)
	return nil
}

func (h *Handlers) pageURL(c *fiber.Ctx) string {
	if h.site.BaseURL != "" {
		return h.site.BaseURL + c.OriginalURL()
	}
	return c.BaseURL() + c.OriginalURL()
}

// loadShell reads a page shell through the cache.
func (h *Handlers) loadShell(ctx context.Context, name string) (string, error) {
	log := logger.Get()

	shell, err := h.redis.GetPage(ctx, name)
	if err == nil {
		return shell, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		log.Warn().Err(err).Str("page", name).Msg("Page cache unavailable")
	}

	shell, err = h.pages.GetPage(ctx, name)
	if err != nil {
		return "", err
	}

	if err := h.redis.SetPage(ctx, name, shell, h.config.CacheTTL); err != nil {
		log.Warn().Err(err).Str("page", name).Msg("Error caching page")
	}
	return shell, nil
}

// ListPages handles GET /api/v1/admin/pages
func (h *Handlers) ListPages(c *fiber.Ctx) error {
	pages, err := h.pages.ListPages(c.UserContext())
	if err != nil {
		logger.Error().Err(err).Msg("Error listing pages")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list pages",
		})
	}

	return c.JSON(fiber.Map{
		"total": len(pages),
		"items": pages,
	})
}

// PutPage handles PUT /api/v1/admin/pages/:name
func (h *Handlers) PutPage(c *fiber.Ctx) error {
	ctx := c.UserContext()
	req := c.Locals("validated").(*SavePageRequest)

	name, err := storage.CleanName(c.Params("name"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if _, err := page.ParseString(req.HTML); err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "Page is not valid HTML",
		})
	}

	if err := h.pages.SavePage(ctx, name, req.HTML); err != nil {
		logger.Error().Err(err).Str("page", name).Msg("Error saving page")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to save page",
		})
	}
	h.evict(ctx, name)

	return c.JSON(fiber.Map{
		"status": "saved",
		"name":   name,
	})
}

// DeletePage handles DELETE /api/v1/admin/pages/:name
func (h *Handlers) DeletePage(c *fiber.Ctx) error {
	ctx := c.UserContext()

	name, err := storage.CleanName(c.Params("name"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if err := h.pages.DeletePage(ctx, name); err != nil {
		if errors.Is(err, storage.ErrPageNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Page not found",
			})
		}
		logger.Error().Err(err).Str("page", name).Msg("Error deleting page")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete page",
		})
	}
	h.evict(ctx, name)

	return c.JSON(fiber.Map{
		"status": "deleted",
		"name":   name,
	})
}

// ClearCache handles DELETE /api/v1/admin/cache
func (h *Handlers) ClearCache(c *fiber.Ctx) error {
	if err := h.redis.ClearPages(c.UserContext()); err != nil {
		logger.Error().Err(err).Msg("Error clearing page cache")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to clear cache",
		})
	}

	return c.JSON(fiber.Map{
		"status": "cleared",
	})
}

// FeedRecords handles GET /api/v1/admin/feeds/:kind/records. It fetches the
// feed live and returns the projected records.
func (h *Handlers) FeedRecords(c *fiber.Ctx) error {
	log := logger.Get()
	start := time.Now()

	kind := models.FeedKind(c.Params("kind"))
	if !kind.Valid() {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Unknown feed kind",
		})
	}
	q := c.Locals("queryParams").(*RecordsQuery)
	src := h.site.Source(kind)

	records, err := h.processor.Records(c.UserContext(), src.URL)
	if errors.Is(err, feed.ErrNoSource) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Feed is not configured",
		})
	}
	if err != nil {
		log.Warn().Err(err).Str("feed", string(kind)).Str("url", src.URL).Msg("Error fetching feed")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to fetch feed",
		})
	}

	if q.Limit > 0 && len(records) > q.Limit {
		records = records[:q.Limit]
	}

	items := make([]interface{}, 0, len(records))
	for _, rec := range records {
		if kind == models.KindBlog {
			items = append(items, feed.ProjectBlog(rec, src.DefaultImage))
		} else {
			items = append(items, feed.ProjectPortfolio(rec, src.DefaultImage))
		}
	}

	log.Info().
		Str("feed", string(kind)).
		Int("records", len(items)).
		Dur("duration", time.Since(start)).
		Msg("Fetched feed records")

	return c.JSON(fiber.Map{
		"feed":  kind,
		"total": len(items),
		"items": items,
	})
}

func (h *Handlers) evict(ctx context.Context, name string) {
	if err := h.redis.DeletePage(ctx, name); err != nil {
		logger.Warn().Err(err).Str("page", name).Msg("Error evicting cached page")
	}
}
