package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/DasBoogs/news-fetcher/config"
	"github.com/DasBoogs/news-fetcher/internal/relevance"
	"github.com/DasBoogs/news-fetcher/models"
)

// post is one link submission from a public reddit JSON listing.
type post struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Selftext      string  `json:"selftext"`
	URL           string  `json:"url"`
	Permalink     string  `json:"permalink"`
	Subreddit     string  `json:"subreddit"`
	Ups           int     `json:"ups"`
	NumComments   int     `json:"num_comments"`
	NumCrossposts int     `json:"num_crossposts"`
	CreatedUTC    float64 `json:"created_utc"`
}

type listing struct {
	Data struct {
		Children []struct {
			Data post `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Provider fetches submissions from the public reddit search listings, one
// request per configured subreddit with a fixed delay between calls.
type Provider struct {
	cfg      config.RedditConfig
	throttle time.Duration
	client   *http.Client
	matcher  *relevance.Matcher
	logger   *log.Logger
}

// New creates a reddit provider.
func New(cfg config.RedditConfig, srcCfg config.SourcesConfig, matcher *relevance.Matcher) *Provider {
	return &Provider{
		cfg:      cfg,
		throttle: srcCfg.ThrottleDelay,
		client:   &http.Client{Timeout: srcCfg.RequestTimeout},
		matcher:  matcher,
		logger:   log.New(log.Writer(), "[REDDIT] ", log.LstdFlags),
	}
}

// Name identifies the provider in logs and registration order.
func (p *Provider) Name() string { return "reddit" }

// FetchArticles searches each configured subreddit for the subject's
// keywords and merges the relevant, deduplicated posts.
func (p *Provider) FetchArticles(ctx context.Context, subject models.Subject) ([]models.Article, error) {
	query := strings.Join(subject.Keywords, " OR ")

	var articles []models.Article
	seen := map[string]bool{}

	for i, sub := range p.cfg.Subreddits {
		if i > 0 && p.throttle > 0 {
			select {
			case <-time.After(p.throttle):
			case <-ctx.Done():
				return articles, ctx.Err()
			}
		}

		posts, err := p.search(ctx, sub, query)
		if err != nil {
			return nil, fmt.Errorf("reddit search r/%s: %w", sub, err)
		}

		for _, ps := range posts {
			id := "reddit-" + ps.ID
			if seen[id] {
				continue
			}
			if !p.matcher.IsRelevantToSubject(ps.Title, ps.Selftext, subject.ID) {
				continue
			}
			seen[id] = true
			articles = append(articles, p.normalize(ps, id))
		}
	}

	p.logger.Printf("fetched %d articles for subject %s", len(articles), subject.ID)
	return articles, nil
}

func (p *Provider) search(ctx context.Context, subreddit, query string) ([]post, error) {
	params := url.Values{}
	params.Add("q", query)
	params.Add("restrict_sr", "1")
	params.Add("sort", "hot")
	params.Add("limit", strconv.Itoa(p.cfg.MaxPerPage))

	reqURL := fmt.Sprintf("%s/r/%s/search.json?%s", p.cfg.Endpoint, subreddit, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	// reddit rejects default Go user agents
	req.Header.Set("User-Agent", p.cfg.UserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reddit error: %s", resp.Status)
	}

	var result listing
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	posts := make([]post, 0, len(result.Data.Children))
	for _, child := range result.Data.Children {
		posts = append(posts, child.Data)
	}
	return posts, nil
}

func (p *Provider) normalize(ps post, id string) models.Article {
	link := ps.URL
	if link == "" && ps.Permalink != "" {
		link = "https://www.reddit.com" + ps.Permalink
	}

	var publishedAt *time.Time
	if ps.CreatedUTC > 0 {
		ts := time.Unix(int64(ps.CreatedUTC), 0).UTC()
		publishedAt = &ts
	}

	return models.Article{
		ID:          id,
		Title:       ps.Title,
		URL:         link,
		Content:     ps.Selftext,
		Source:      "Reddit r/" + ps.Subreddit,
		PublishedAt: publishedAt,
		Engagement: models.EngagementMetrics{
			Upvotes:  models.IntPtr(ps.Ups),
			Comments: models.IntPtr(ps.NumComments),
			Shares:   models.IntPtr(ps.NumCrossposts),
		},
	}
}
