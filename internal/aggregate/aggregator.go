package aggregate

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/DasBoogs/news-fetcher/internal/source"
	"github.com/DasBoogs/news-fetcher/internal/telemetry"
	"github.com/DasBoogs/news-fetcher/models"
)

// ProviderResult is the outcome of one provider's fetch. A failed provider
// carries Err and no articles; it never hides behind an empty success.
type ProviderResult struct {
	Provider string
	Articles []models.Article
	Err      error
}

// Aggregator fans a fetch out to every registered provider and merges the
// results. The provider list is fixed at construction; adding a source is a
// registration change, not an aggregator change.
type Aggregator struct {
	providers []source.Provider
	metrics   *telemetry.Metrics
	logger    *log.Logger
}

// New creates an aggregator over the given providers. Registration order is
// the merge order.
func New(providers []source.Provider, metrics *telemetry.Metrics) *Aggregator {
	return &Aggregator{
		providers: providers,
		metrics:   metrics,
		logger:    log.New(log.Writer(), "[AGG] ", log.LstdFlags),
	}
}

// Providers returns the registered providers in registration order.
func (a *Aggregator) Providers() []source.Provider { return a.providers }

// FetchAll runs every provider concurrently for the subject and returns one
// result per provider, in registration order. A provider failure is isolated
// into its own result; it never aborts the other fetches. Results are always
// merged in registration order regardless of which fetch finishes first.
func (a *Aggregator) FetchAll(ctx context.Context, subject models.Subject) []ProviderResult {
	runID := uuid.New().String()[:8]
	results := make([]ProviderResult, len(a.providers))

	var wg sync.WaitGroup
	for i, p := range a.providers {
		wg.Add(1)
		go func(idx int, prov source.Provider) {
			defer wg.Done()
			start := time.Now()
			articles, err := prov.FetchArticles(ctx, subject)
			a.metrics.ObserveFetch(prov.Name(), len(articles), time.Since(start), err)
			if err != nil {
				a.logger.Printf("[%s] provider %s failed for subject %s: %v", runID, prov.Name(), subject.ID, err)
				results[idx] = ProviderResult{Provider: prov.Name(), Err: err}
				return
			}
			results[idx] = ProviderResult{Provider: prov.Name(), Articles: articles}
		}(i, p)
	}
	wg.Wait()

	return results
}

// FetchAllArticles flattens FetchAll into a single sequence: healthy
// providers' articles concatenated in registration order, each provider's
// own order preserved. All providers failing yields an empty sequence, same
// as no provider finding anything.
func (a *Aggregator) FetchAllArticles(ctx context.Context, subject models.Subject) []models.Article {
	results := a.FetchAll(ctx, subject)

	var merged []models.Article
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			continue
		}
		merged = append(merged, res.Articles...)
	}

	if failed == len(results) && len(results) > 0 {
		a.logger.Printf("all %d providers failed for subject %s", failed, subject.ID)
	}
	return merged
}
