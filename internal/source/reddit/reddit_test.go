package reddit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DasBoogs/news-fetcher/config"
	"github.com/DasBoogs/news-fetcher/internal/relevance"
	"github.com/DasBoogs/news-fetcher/internal/subject"
	"github.com/DasBoogs/news-fetcher/models"
)

func testSubject() models.Subject {
	return models.Subject{ID: "ai", Keywords: []string{"machine learning"}, RelatedTerms: []string{"gpt"}}
}

func testMatcher(t *testing.T) *relevance.Matcher {
	t.Helper()
	r := subject.NewRegistry()
	r.Add(testSubject())
	return relevance.NewMatcher(r)
}

func newProvider(t *testing.T, endpoint string, subreddits []string) *Provider {
	t.Helper()
	return New(
		config.RedditConfig{Enabled: true, Endpoint: endpoint, Subreddits: subreddits, UserAgent: "news-fetcher-test", MaxPerPage: 25},
		config.SourcesConfig{RequestTimeout: 2 * time.Second, ThrottleDelay: 0},
		testMatcher(t),
	)
}

func listingFor(posts ...post) listing {
	var l listing
	for _, p := range posts {
		l.Data.Children = append(l.Data.Children, struct {
			Data post `json:"data"`
		}{Data: p})
	}
	return l
}

func TestFetchArticlesQueriesEachSubreddit(t *testing.T) {
	var paths []string
	var agents []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		agents = append(agents, r.Header.Get("User-Agent"))
		sub := strings.Split(r.URL.Path, "/")[2]
		json.NewEncoder(w).Encode(listingFor(post{
			ID: sub + "1", Title: "machine learning in production", Subreddit: sub,
			Ups: 120, NumComments: 45, NumCrossposts: 3, CreatedUTC: 1756300000,
		}))
	}))
	defer srv.Close()

	p := newProvider(t, srv.URL, []string{"technology", "programming"})
	articles, err := p.FetchArticles(context.Background(), testSubject())
	if err != nil {
		t.Fatalf("FetchArticles: %v", err)
	}

	if len(paths) != 2 || paths[0] != "/r/technology/search.json" || paths[1] != "/r/programming/search.json" {
		t.Fatalf("expected one search per subreddit, got %v", paths)
	}
	for _, ua := range agents {
		if ua != "news-fetcher-test" {
			t.Errorf("custom user agent required, got %q", ua)
		}
	}

	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
	a := articles[0]
	if a.ID != "reddit-technology1" {
		t.Errorf("expected namespaced id, got %s", a.ID)
	}
	if a.Source != "Reddit r/technology" {
		t.Errorf("source must include the subreddit, got %q", a.Source)
	}
	if a.Engagement.Upvotes == nil || *a.Engagement.Upvotes != 120 {
		t.Errorf("ups must map to upvotes: %+v", a.Engagement)
	}
	if a.Engagement.Shares == nil || *a.Engagement.Shares != 3 {
		t.Errorf("crossposts must map to shares: %+v", a.Engagement)
	}
	if a.Engagement.Views != nil || a.Engagement.Reactions != nil {
		t.Errorf("unreported metrics must stay absent: %+v", a.Engagement)
	}
	if a.PublishedAt == nil {
		t.Errorf("created_utc must be parsed")
	}
}

func TestFetchArticlesGatesOnRelevance(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(listingFor(
			post{ID: "x1", Title: "gpt-based agents", Subreddit: "technology", Ups: 5},
			post{ID: "x2", Title: "best pizza in town", Subreddit: "technology", Ups: 900},
		))
	}))
	defer srv.Close()

	p := newProvider(t, srv.URL, []string{"technology"})
	articles, err := p.FetchArticles(context.Background(), testSubject())
	if err != nil {
		t.Fatalf("FetchArticles: %v", err)
	}
	if len(articles) != 1 || articles[0].ID != "reddit-x1" {
		t.Fatalf("irrelevant posts must be filtered, got %v", articles)
	}
}

func TestFetchArticlesPermalinkFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(listingFor(post{
			ID: "p9", Title: "machine learning notes", Subreddit: "technology",
			Permalink: "/r/technology/comments/p9/notes/",
		}))
	}))
	defer srv.Close()

	p := newProvider(t, srv.URL, []string{"technology"})
	articles, err := p.FetchArticles(context.Background(), testSubject())
	if err != nil {
		t.Fatalf("FetchArticles: %v", err)
	}
	if articles[0].URL != "https://www.reddit.com/r/technology/comments/p9/notes/" {
		t.Errorf("expected permalink fallback, got %s", articles[0].URL)
	}
}

func TestFetchArticlesUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer srv.Close()

	p := newProvider(t, srv.URL, []string{"technology"})
	if _, err := p.FetchArticles(context.Background(), testSubject()); err == nil {
		t.Fatalf("upstream failure must surface as an error")
	}
}
