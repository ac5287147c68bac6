package enrich

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/DasBoogs/news-fetcher/config"
	"github.com/DasBoogs/news-fetcher/internal/telemetry"
	"github.com/DasBoogs/news-fetcher/models"
)

// Selectors tried in priority order when extracting readable text.
var contentSelectors = []string{
	"article",
	"main",
	"[role=main]",
	".post-content",
	".article-content",
	".entry-content",
	".article-body",
	".post-body",
	"#content",
	".content",
}

// Elements stripped before extraction.
const strippedSelectors = "script, style, nav, header, footer, aside, iframe, form, noscript, .ad, .ads, .advertisement, .sidebar, .comments"

// Enricher upgrades short article summaries with text scraped from the
// article URL. Every step is best effort: a fetch or parse failure leaves
// the original content untouched and is never surfaced to the caller.
type Enricher struct {
	cfg     config.EnrichmentConfig
	client  *http.Client
	metrics *telemetry.Metrics
	logger  *log.Logger
}

// New creates an enricher.
func New(cfg config.EnrichmentConfig, metrics *telemetry.Metrics) *Enricher {
	return &Enricher{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		metrics: metrics,
		logger:  log.New(log.Writer(), "[ENRICH] ", log.LstdFlags),
	}
}

// EnrichArticles returns the same articles in the same order, with short
// contents replaced by scraped page text where that succeeds. Contents at or
// above the threshold pass through word-capped. Nothing is ever dropped.
func (e *Enricher) EnrichArticles(ctx context.Context, articles []models.ScoredArticle) []models.ScoredArticle {
	out := make([]models.ScoredArticle, len(articles))
	copy(out, articles)

	for i := range out {
		if !e.cfg.Enabled || len(out[i].Content) >= e.cfg.MinContentChars {
			out[i].Content = capWords(out[i].Content, e.cfg.MaxWords)
			e.metrics.ObserveEnrichment("skipped")
			continue
		}

		text, err := e.fetchText(ctx, out[i].URL)
		if err != nil || text == "" {
			if err != nil {
				e.logger.Printf("enrichment failed for %s: %v", out[i].ID, err)
			}
			e.metrics.ObserveEnrichment("failed")
			continue
		}

		out[i].Content = capWords(text, e.cfg.MaxWords)
		e.metrics.ObserveEnrichment("enriched")
	}
	return out
}

// fetchText downloads the page and extracts readable text, trying the
// prioritized selectors first and falling back to readability when they
// yield too little.
func (e *Enricher) fetchText(ctx context.Context, pageURL string) (string, error) {
	if strings.TrimSpace(pageURL) == "" {
		return "", fmt.Errorf("no url to enrich")
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", e.cfg.UserAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page fetch error: %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse page: %w", err)
	}

	doc.Find(strippedSelectors).Remove()

	for _, sel := range contentSelectors {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if text := collapse(node.Text()); len(text) >= e.cfg.MinContentChars {
				return text, nil
			}
		}
	}

	// Selectors found nothing substantial; let readability take the page
	// apart instead.
	html, err := doc.Html()
	if err != nil {
		return "", err
	}
	parsed, perr := url.Parse(pageURL)
	if perr != nil {
		parsed = &url.URL{}
	}
	article, err := readability.FromReader(strings.NewReader(html), parsed)
	if err != nil {
		return "", fmt.Errorf("readability fallback: %w", err)
	}
	if text := collapse(article.TextContent); len(text) >= e.cfg.MinContentChars {
		return text, nil
	}

	if text := collapse(doc.Find("body").Text()); text != "" {
		return text, nil
	}
	return "", nil
}

// collapse squeezes all whitespace runs to single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// capWords truncates text to at most n words.
func capWords(s string, n int) string {
	if n <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) <= n {
		return s
	}
	return strings.Join(words[:n], " ")
}
