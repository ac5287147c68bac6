package hackernews

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

// hit is one story from the Algolia HN Search API.
type hit struct {
	ObjectID    string `json:"objectID"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	StoryText   string `json:"story_text"`
	Points      int    `json:"points"`
	NumComments int    `json:"num_comments"`
	CreatedAt   string `json:"created_at"`
}

type response struct {
	Hits []hit `json:"hits"`
}

// Provider fetches stories from the Algolia Hacker News Search API, one
// query per subject keyword with a fixed delay between calls.
type Provider struct {
	cfg      config.HackerNewsConfig
	throttle time.Duration
	client   *http.Client
	matcher  *relevance.Matcher
	logger   *log.Logger
}

// New creates a Hacker News provider.
func New(cfg config.HackerNewsConfig, srcCfg config.SourcesConfig, matcher *relevance.Matcher) *Provider {
	return &Provider{
		cfg:      cfg,
		throttle: srcCfg.ThrottleDelay,
		client:   &http.Client{Timeout: srcCfg.RequestTimeout},
		matcher:  matcher,
		logger:   log.New(log.Writer(), "[HN] ", log.LstdFlags),
	}
}

// Name identifies the provider in logs and registration order.
func (p *Provider) Name() string { return "hackernews" }

// FetchArticles queries the search endpoint once per subject keyword and
// merges the relevant, deduplicated hits.
func (p *Provider) FetchArticles(ctx context.Context, subject models.Subject) ([]models.Article, error) {
	var articles []models.Article
	seen := map[string]bool{}

	for i, keyword := range subject.Keywords {
		if i > 0 && p.throttle > 0 {
			select {
			case <-time.After(p.throttle):
			case <-ctx.Done():
				return articles, ctx.Err()
			}
		}

		hits, err := p.search(ctx, keyword)
		if err != nil {
			return nil, fmt.Errorf("hackernews search %q: %w", keyword, err)
		}

		for _, h := range hits {
			id := "hn-" + h.ObjectID
			if seen[id] {
				continue
			}
			if !p.matcher.IsRelevantToSubject(h.Title, h.StoryText, subject.ID) {
				continue
			}
			seen[id] = true
			articles = append(articles, p.normalize(h, id))
		}
	}

	p.logger.Printf("fetched %d articles for subject %s", len(articles), subject.ID)
	return articles, nil
}

func (p *Provider) search(ctx context.Context, query string) ([]hit, error) {
	params := url.Values{}
	params.Add("query", query)
	params.Add("tags", "story")
	params.Add("hitsPerPage", strconv.Itoa(p.cfg.MaxPerPage))

	reqURL := fmt.Sprintf("%s/search?%s", p.cfg.Endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch stories: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("algolia error: %s", resp.Status)
	}

	var result response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return result.Hits, nil
}

func (p *Provider) normalize(h hit, id string) models.Article {
	link := h.URL
	if link == "" {
		// Ask HN style posts carry no external link
		link = "https://news.ycombinator.com/item?id=" + h.ObjectID
	}

	var publishedAt *time.Time
	if ts, err := time.Parse(time.RFC3339, h.CreatedAt); err == nil {
		publishedAt = &ts
	}

	return models.Article{
		ID:          id,
		Title:       h.Title,
		URL:         link,
		Content:     h.StoryText,
		Source:      "Hacker News",
		PublishedAt: publishedAt,
		Engagement: models.EngagementMetrics{
			Upvotes:  models.IntPtr(h.Points),
			Comments: models.IntPtr(h.NumComments),
		},
	}
}
