package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/DasBoogs/news-fetcher/config"
	"github.com/DasBoogs/news-fetcher/internal/aggregate"
	"github.com/DasBoogs/news-fetcher/internal/enrich"
	"github.com/DasBoogs/news-fetcher/internal/relevance"
	"github.com/DasBoogs/news-fetcher/internal/scoring"
	"github.com/DasBoogs/news-fetcher/internal/source"
	"github.com/DasBoogs/news-fetcher/internal/source/devto"
	"github.com/DasBoogs/news-fetcher/internal/source/hackernews"
	"github.com/DasBoogs/news-fetcher/internal/source/reddit"
	"github.com/DasBoogs/news-fetcher/internal/subject"
	"github.com/DasBoogs/news-fetcher/internal/telemetry"
)

// Run wires the whole pipeline from config and serves the JSON API.
func Run(cfg *config.Config) error {
	e := newEcho()

	// Top-level DI: registry -> matcher -> providers -> aggregator -> scorer
	registry := subject.NewRegistry()
	for _, sc := range cfg.Subjects {
		registry.Add(sc.Subject())
	}
	matcher := relevance.NewMatcher(registry)
	metrics := telemetry.New()

	var providers []source.Provider
	if cfg.Sources.HackerNews.Enabled {
		providers = append(providers, hackernews.New(cfg.Sources.HackerNews, cfg.Sources, matcher))
	}
	if cfg.Sources.Reddit.Enabled {
		providers = append(providers, reddit.New(cfg.Sources.Reddit, cfg.Sources, matcher))
	}
	if cfg.Sources.DevTo.Enabled {
		providers = append(providers, devto.New(cfg.Sources.DevTo, cfg.Sources, matcher))
	}

	agg := aggregate.New(providers, metrics)
	scorer := scoring.New(cfg.Scoring.DomainWeights(), matcher)
	enricher := enrich.New(cfg.Enrichment, metrics)

	registerRoutes(e, registry, agg, scorer, enricher, metrics, cfg.Scoring.DefaultLimit)
	e.GET("/metrics", echo.WrapHandler(telemetry.Handler()))

	addr := cfg.General.Listen
	if addr != "" && addr[0] != ':' {
		addr = ":" + addr
	}
	if addr == "" {
		addr = ":8080"
	}
	log.Printf("listening on %s", addr)
	return e.Start(addr)
}

// newEcho builds the echo app with the shared middleware and the unified
// JSON error handler.
func newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))
	return e
}

// registerRoutes attaches all /api handlers. Split out of Run so tests can
// exercise the HTTP surface with fake providers.
func registerRoutes(e *echo.Echo, registry *subject.Registry, agg *aggregate.Aggregator,
	scorer *scoring.Scorer, enricher *enrich.Enricher, metrics *telemetry.Metrics, defaultLimit int) {

	api := e.Group("/api")

	sh := &SubjectsHandler{Registry: registry}
	sh.Register(api.Group("/subjects"))

	ah := &ArticlesHandler{
		Registry:     registry,
		Aggregator:   agg,
		Scorer:       scorer,
		Enricher:     enricher,
		Metrics:      metrics,
		DefaultLimit: defaultLimit,
	}
	ah.Register(api)
}
