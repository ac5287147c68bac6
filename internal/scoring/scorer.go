package scoring

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/DasBoogs/news-fetcher/internal/relevance"
	"github.com/DasBoogs/news-fetcher/models"
)

// NoMetricsExplanation is returned when an article reports no engagement.
const NoMetricsExplanation = "No engagement metrics available"

// DefaultWeights weight comments highest (highest-effort engagement signal)
// and views lowest (weakest quality signal); shares, upvotes and reactions
// sit between, ordered by how much intent each action carries.
func DefaultWeights() models.ScoringWeights {
	return models.ScoringWeights{
		Upvotes:   1.0,
		Comments:  2.0,
		Shares:    1.5,
		Reactions: 0.8,
		Views:     0.01,
	}
}

// Scorer ranks articles by a weighted engagement formula and re-runs the
// relevance matcher to attach matched terms to each output record.
type Scorer struct {
	weights models.ScoringWeights
	matcher *relevance.Matcher
}

// New creates a scorer with the given weights.
func New(weights models.ScoringWeights, matcher *relevance.Matcher) *Scorer {
	return &Scorer{weights: weights, matcher: matcher}
}

// Weights returns the scorer's active weights.
func (s *Scorer) Weights() models.ScoringWeights { return s.weights }

// CalculateEngagementScore computes the weighted breakdown for one article.
// Absent metrics score as zero. The explanation lists present non-zero
// metrics in fixed order; contributions are rendered to one decimal place
// but TotalScore keeps full precision.
func CalculateEngagementScore(a models.Article, w models.ScoringWeights) models.ScoreBreakdown {
	b := models.ScoreBreakdown{
		UpvotesContribution:   metric(a.Engagement.Upvotes) * w.Upvotes,
		CommentsContribution:  metric(a.Engagement.Comments) * w.Comments,
		SharesContribution:    metric(a.Engagement.Shares) * w.Shares,
		ReactionsContribution: metric(a.Engagement.Reactions) * w.Reactions,
		ViewsContribution:     metric(a.Engagement.Views) * w.Views,
	}
	b.TotalScore = b.UpvotesContribution + b.CommentsContribution +
		b.SharesContribution + b.ReactionsContribution + b.ViewsContribution
	b.Explanation = explain(a.Engagement, w, b)
	return b
}

func metric(v *int) float64 {
	if v == nil {
		return 0
	}
	return float64(*v)
}

func explain(e models.EngagementMetrics, w models.ScoringWeights, b models.ScoreBreakdown) string {
	var parts []string
	add := func(v *int, name string, weight, contribution float64) {
		if v == nil || *v == 0 {
			return
		}
		parts = append(parts, fmt.Sprintf("%d %s x %s = %.1f",
			*v, name, strconv.FormatFloat(weight, 'g', -1, 64), contribution))
	}
	add(e.Upvotes, "upvotes", w.Upvotes, b.UpvotesContribution)
	add(e.Comments, "comments", w.Comments, b.CommentsContribution)
	add(e.Shares, "shares", w.Shares, b.SharesContribution)
	add(e.Reactions, "reactions", w.Reactions, b.ReactionsContribution)
	add(e.Views, "views", w.Views, b.ViewsContribution)

	if len(parts) == 0 {
		return NoMetricsExplanation
	}
	return strings.Join(parts, " + ") + fmt.Sprintf(" = %.1f", b.TotalScore)
}

// ScoreArticles maps every input article to a scored article, preserving
// input order and never dropping anything. Relevance is re-evaluated here
// independently of whatever gating the providers already did; an article
// that no longer matches keeps empty matched terms and a zero relevance
// score rather than being excluded.
func (s *Scorer) ScoreArticles(articles []models.Article, subjectID string) []models.ScoredArticle {
	scored := make([]models.ScoredArticle, 0, len(articles))
	for _, a := range articles {
		breakdown := CalculateEngagementScore(a, s.weights)
		sa := models.ScoredArticle{
			Article:         a,
			EngagementScore: breakdown.TotalScore,
			ScoreBreakdown:  breakdown,
			MatchedKeywords: []string{},
		}
		if match, ok := s.matcher.MatchContent(a.Title+" "+a.Content, subjectID); ok {
			sa.MatchedKeywords = match.MatchedKeywords
			sa.RelevanceScore = match.RelevanceScore
		}
		scored = append(scored, sa)
	}
	return scored
}

// TopArticles sorts descending by engagement score and truncates to limit.
// The sort is stable, so equal scores keep their input order. A limit of
// zero or less returns an empty sequence.
func TopArticles(scored []models.ScoredArticle, limit int) []models.ScoredArticle {
	if limit <= 0 {
		return []models.ScoredArticle{}
	}
	out := make([]models.ScoredArticle, len(scored))
	copy(out, scored)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].EngagementScore > out[j].EngagementScore
	})
	if limit < len(out) {
		out = out[:limit]
	}
	return out
}

// MethodExplanation describes the scoring formula. It is generated from the
// active weights so it cannot drift from them.
func (s *Scorer) MethodExplanation() string {
	w := s.weights
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return fmt.Sprintf(
		"Articles are ranked by a weighted engagement score: "+
			"(upvotes x %s) + (comments x %s) + (shares x %s) + (reactions x %s) + (views x %s). "+
			"Comments carry the highest weight because commenting is the highest-effort signal; "+
			"views carry the lowest because they are the weakest indicator of quality. "+
			"Engagement data comes from Hacker News (points, comments), Reddit (upvotes, comments, crossposts) "+
			"and DEV Community (reactions, comments).",
		f(w.Upvotes), f(w.Comments), f(w.Shares), f(w.Reactions), f(w.Views))
}
