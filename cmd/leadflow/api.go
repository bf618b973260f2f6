// Package main provides the Leadflow API server and command-line tools.
package main

import (
	"log/slog"
	"strconv"

	"github.com/dukex/leadflow/pkg/catalog"
	"github.com/dukex/leadflow/pkg/notify"
	"github.com/dukex/leadflow/pkg/panel"
	"github.com/dukex/leadflow/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

type API struct {
	logger     *slog.Logger
	catalog    *catalog.Catalog
	panels     *panel.Manager
	feed       *notify.Feed
	webhookURL string
	validate   *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	catalog *catalog.Catalog,
	panels *panel.Manager,
	feed *notify.Feed,
	webhookURL string,
) *API {
	return &API{
		logger:     logger,
		catalog:    catalog,
		panels:     panels,
		feed:       feed,
		webhookURL: webhookURL,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(a.catalog, a.panels, a.feed, a.validate, a.webhookURL)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Leadflow API")
	})

	c := app.Group("/categories")
	c.Get("/", handlers.GetCategories)
	c.Get("/:id", handlers.GetCategory)
	c.Get("/:id/workflows", handlers.GetCategoryWorkflows)

	app.Get("/workflows/:id", handlers.GetWorkflow)

	p := app.Group("/panels")
	p.Get("/", handlers.GetPanels)
	p.Post("/", handlers.OpenPanel)
	p.Get("/:id", handlers.GetPanel)
	p.Delete("/:id", handlers.ClosePanel)
	p.Put("/:id/fields/:fieldId", handlers.SetField)
	p.Post("/:id/validate", handlers.ValidatePanel)
	p.Post("/:id/submit", handlers.SubmitPanel)

	app.Get("/notifications", handlers.GetNotifications)
	app.Get("/settings", handlers.GetSettings)
	app.Get("/agent", handlers.GetAgent)
	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	a.logger.Info("Listening", "port", port, "workflows", a.catalog.Len())

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}
