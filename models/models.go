package models

import (
	"errors"
	"time"
)

// ErrSubjectNotFound is returned when a subject is not registered
var ErrSubjectNotFound = errors.New("subject not found")

// Subject is a named topic definition used to filter articles.
type Subject struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Keywords     []string `json:"keywords"`
	RelatedTerms []string `json:"relatedTerms"`
}

// SubjectMatch is the result of matching free text against a subject.
// MatchedKeywords keeps scan order and may repeat a term that appears in
// both the keyword and related-term lists.
type SubjectMatch struct {
	SubjectID       string   `json:"subjectId"`
	MatchedKeywords []string `json:"matchedKeywords"`
	RelevanceScore  int      `json:"relevanceScore"`
}

// EngagementMetrics carries source-reported popularity signals. A nil field
// means the source does not report that metric; it scores as zero but stays
// absent in JSON output.
type EngagementMetrics struct {
	Upvotes   *int `json:"upvotes,omitempty"`
	Comments  *int `json:"comments,omitempty"`
	Shares    *int `json:"shares,omitempty"`
	Reactions *int `json:"reactions,omitempty"`
	Views     *int `json:"views,omitempty"`
}

// Article is one normalized record from a source provider. IDs are
// namespaced by source prefix ("hn-12345") so they stay globally unique
// across providers.
type Article struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	URL         string            `json:"url"`
	Content     string            `json:"content"`
	Source      string            `json:"source"`
	PublishedAt *time.Time        `json:"publishedAt"`
	Engagement  EngagementMetrics `json:"engagement"`
}

// ScoringWeights are the multipliers applied to each engagement metric.
type ScoringWeights struct {
	Upvotes   float64 `json:"upvotes"`
	Comments  float64 `json:"comments"`
	Shares    float64 `json:"shares"`
	Reactions float64 `json:"reactions"`
	Views     float64 `json:"views"`
}

// ScoreBreakdown shows how an article's engagement score was derived.
type ScoreBreakdown struct {
	UpvotesContribution   float64 `json:"upvotesContribution"`
	CommentsContribution  float64 `json:"commentsContribution"`
	SharesContribution    float64 `json:"sharesContribution"`
	ReactionsContribution float64 `json:"reactionsContribution"`
	ViewsContribution     float64 `json:"viewsContribution"`
	TotalScore            float64 `json:"totalScore"`
	Explanation           string  `json:"explanation"`
}

// ScoredArticle is an Article extended with scoring and relevance output.
// EngagementScore always equals ScoreBreakdown.TotalScore.
type ScoredArticle struct {
	Article
	EngagementScore float64        `json:"engagementScore"`
	ScoreBreakdown  ScoreBreakdown `json:"scoreBreakdown"`
	MatchedKeywords []string       `json:"matchedKeywords"`
	RelevanceScore  int            `json:"relevanceScore"`
}

// IntPtr is a convenience for building optional engagement metrics.
func IntPtr(v int) *int { return &v }
