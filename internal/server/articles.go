package server

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/DasBoogs/news-fetcher/internal/aggregate"
	"github.com/DasBoogs/news-fetcher/internal/enrich"
	"github.com/DasBoogs/news-fetcher/internal/scoring"
	"github.com/DasBoogs/news-fetcher/internal/subject"
	"github.com/DasBoogs/news-fetcher/internal/telemetry"
	"github.com/DasBoogs/news-fetcher/models"
)

type ArticlesHandler struct {
	Registry     *subject.Registry
	Aggregator   *aggregate.Aggregator
	Scorer       *scoring.Scorer
	Enricher     *enrich.Enricher
	Metrics      *telemetry.Metrics
	DefaultLimit int

	logger *log.Logger
}

func (h *ArticlesHandler) Register(g *echo.Group) {
	h.logger = log.New(log.Writer(), "[ARTICLES] ", log.LstdFlags)
	g.GET("/articles/:subjectId", h.articles)
	g.GET("/scoring-method", h.scoringMethod)
	g.GET("/health", h.health)
}

// articlesResponse is the JSON envelope for a ranked article listing.
type articlesResponse struct {
	Subject       string                 `json:"subject"`
	TotalFound    int                    `json:"totalFound"`
	Returned      int                    `json:"returned"`
	ScoringMethod string                 `json:"scoringMethod"`
	Weights       models.ScoringWeights  `json:"weights"`
	Articles      []models.ScoredArticle `json:"articles"`
}

func (h *ArticlesHandler) articles(c echo.Context) error {
	subjectID := c.Param("subjectId")
	subj, ok := h.Registry.Get(subjectID)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Subject not found")
	}

	limit := h.DefaultLimit
	if raw := c.QueryParam("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	resp, err := h.runPipeline(c, subj, limit)
	if err != nil {
		h.Metrics.ObserveRequest(subjectID, "error")
		h.logger.Printf("pipeline failed for subject %s: %v", subjectID, err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to fetch articles")
	}

	h.Metrics.ObserveRequest(subjectID, "ok")
	return c.JSON(http.StatusOK, resp)
}

// runPipeline executes aggregate -> score -> top-N -> enrich. Provider and
// enrichment failures are already isolated below this layer; anything that
// still escapes (including a panic in scoring) is one pipeline error.
func (h *ArticlesHandler) runPipeline(c echo.Context, subj models.Subject, limit int) (resp articlesResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pipeline panic: %v", r)
		}
	}()

	ctx := c.Request().Context()

	articles := h.Aggregator.FetchAllArticles(ctx, subj)
	scored := h.Scorer.ScoreArticles(articles, subj.ID)
	top := scoring.TopArticles(scored, limit)
	top = h.Enricher.EnrichArticles(ctx, top)

	return articlesResponse{
		Subject:       subj.Name,
		TotalFound:    len(scored),
		Returned:      len(top),
		ScoringMethod: h.Scorer.MethodExplanation(),
		Weights:       h.Scorer.Weights(),
		Articles:      top,
	}, nil
}

func (h *ArticlesHandler) scoringMethod(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"explanation": h.Scorer.MethodExplanation(),
		"weights":     h.Scorer.Weights(),
	})
}

func (h *ArticlesHandler) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
