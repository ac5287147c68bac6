package source

import (
	"context"

	"github.com/DasBoogs/news-fetcher/models"
)

// Provider is one upstream content source. Implementations normalize their
// API's records into models.Article, gate each record on the relevance
// matcher, and namespace ids with a source prefix so they never collide
// across providers.
type Provider interface {
	Name() string
	FetchArticles(ctx context.Context, subject models.Subject) ([]models.Article, error)
}
