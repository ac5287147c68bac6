package devto

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/DasBoogs/news-fetcher/config"
	"github.com/DasBoogs/news-fetcher/internal/relevance"
	"github.com/DasBoogs/news-fetcher/models"
)

// article is one record from the dev.to articles API.
type article struct {
	ID                     int    `json:"id"`
	Title                  string `json:"title"`
	Description            string `json:"description"`
	URL                    string `json:"url"`
	PublishedTimestamp     string `json:"published_timestamp"`
	PositiveReactionsCount int    `json:"positive_reactions_count"`
	CommentsCount          int    `json:"comments_count"`
}

// Provider fetches posts from the dev.to articles API, one query per
// configured tag with a fixed delay between calls. When no tags are
// configured it falls back to one query per subject keyword.
type Provider struct {
	cfg      config.DevToConfig
	throttle time.Duration
	client   *http.Client
	matcher  *relevance.Matcher
	logger   *log.Logger
}

// New creates a dev.to provider.
func New(cfg config.DevToConfig, srcCfg config.SourcesConfig, matcher *relevance.Matcher) *Provider {
	return &Provider{
		cfg:      cfg,
		throttle: srcCfg.ThrottleDelay,
		client:   &http.Client{Timeout: srcCfg.RequestTimeout},
		matcher:  matcher,
		logger:   log.New(log.Writer(), "[DEVTO] ", log.LstdFlags),
	}
}

// Name identifies the provider in logs and registration order.
func (p *Provider) Name() string { return "devto" }

// FetchArticles queries the articles endpoint per tag and merges the
// relevant, deduplicated records.
func (p *Provider) FetchArticles(ctx context.Context, subject models.Subject) ([]models.Article, error) {
	tags := p.cfg.Tags
	if len(tags) == 0 {
		tags = subject.Keywords
	}

	var articles []models.Article
	seen := map[string]bool{}

	for i, tag := range tags {
		if i > 0 && p.throttle > 0 {
			select {
			case <-time.After(p.throttle):
			case <-ctx.Done():
				return articles, ctx.Err()
			}
		}

		records, err := p.byTag(ctx, tag)
		if err != nil {
			return nil, fmt.Errorf("devto tag %q: %w", tag, err)
		}

		for _, rec := range records {
			id := "devto-" + strconv.Itoa(rec.ID)
			if seen[id] {
				continue
			}
			if !p.matcher.IsRelevantToSubject(rec.Title, rec.Description, subject.ID) {
				continue
			}
			seen[id] = true
			articles = append(articles, p.normalize(rec, id))
		}
	}

	p.logger.Printf("fetched %d articles for subject %s", len(articles), subject.ID)
	return articles, nil
}

func (p *Provider) byTag(ctx context.Context, tag string) ([]article, error) {
	params := url.Values{}
	params.Add("tag", tag)
	params.Add("per_page", strconv.Itoa(p.cfg.MaxPerPage))

	reqURL := fmt.Sprintf("%s/articles?%s", p.cfg.Endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch articles: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("devto error: %s", resp.Status)
	}

	var result []article
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return result, nil
}

func (p *Provider) normalize(rec article, id string) models.Article {
	var publishedAt *time.Time
	if ts, err := time.Parse(time.RFC3339, rec.PublishedTimestamp); err == nil {
		publishedAt = &ts
	}

	return models.Article{
		ID:          id,
		Title:       rec.Title,
		URL:         rec.URL,
		Content:     rec.Description,
		Source:      "DEV Community",
		PublishedAt: publishedAt,
		Engagement: models.EngagementMetrics{
			Reactions: models.IntPtr(rec.PositiveReactionsCount),
			Comments:  models.IntPtr(rec.CommentsCount),
		},
	}
}
