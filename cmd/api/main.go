package main

import (
	"context"
	"log"
	"strings"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pranav-027/delimited-files-excel-converter/docs"
	"github.com/pranav-027/delimited-files-excel-converter/internal/config"
	handlers "github.com/pranav-027/delimited-files-excel-converter/internal/http/handler"
	"github.com/pranav-027/delimited-files-excel-converter/internal/http/middleware"
	"github.com/pranav-027/delimited-files-excel-converter/internal/otel"
	"github.com/pranav-027/delimited-files-excel-converter/internal/service"
	"github.com/pranav-027/delimited-files-excel-converter/internal/store"
)

// @title Delimited Files Excel Converter API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx := context.Background()
	shutdownTracing, err := otel.Init(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	// The artifact store is the only state in the system; explicit init
	// here and teardown on exit.
	artifacts, err := store.New(cfg.Storage)
	if err != nil {
		log.Fatalf("failed to initialize artifact store: %v", err)
	}
	defer artifacts.Close()

	reg := prometheus.NewRegistry()
	promMW, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register http metrics: %v", err)
	}

	converter, err := service.NewConverter(artifacts, reg)
	if err != nil {
		log.Fatalf("failed to initialize converter: %v", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    cfg.MaxRequestBytes,
	})

	// Register global middleware
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())
	app.Use(promMW.Handler())

	// Register HTTP routes with injected store and service
	handlers.RegisterRoutes(app, artifacts, converter, cfg.MaxFileBytes)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
