package api

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/bilgisen/titan/internal/middleware"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(app *fiber.App, h *Handlers) {
	// API group with versioning
	api := app.Group("/api/v1")

	api.Get("/health", h.HealthCheck)

	admin := api.Group("/admin", middleware.AdminOnly(h.config.AdminAPIKey))
	{
		admin.Get("/pages", h.ListPages)
		admin.Put("/pages/:name", middleware.ValidateRequest(func() interface{} { return &SavePageRequest{} }), h.PutPage)
		admin.Delete("/pages/:name", h.DeletePage)
		admin.Delete("/cache", h.ClearCache)
		admin.Get("/feeds/:kind/records", middleware.ValidateQueryParams(func() interface{} { return &RecordsQuery{} }), h.FeedRecords)
	}

	api.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
		})
	})

	// Generated pages
	pageQuery := middleware.ValidateQueryValues(fmt.Sprintf("max=%d", middleware.MaxQueryValue))
	app.Get("/", pageQuery, h.ServePage)
	app.Get("/:page", pageQuery, h.ServePage)
}
