package relevance

import (
	"strings"

	"github.com/DasBoogs/news-fetcher/internal/subject"
	"github.com/DasBoogs/news-fetcher/models"
)

// Per-hit scores for the two term tiers.
const (
	keywordScore     = 10
	relatedTermScore = 5
)

// Matcher decides whether free text relates to a registered subject.
type Matcher struct {
	registry *subject.Registry
}

// NewMatcher builds a matcher over the given registry.
func NewMatcher(registry *subject.Registry) *Matcher {
	return &Matcher{registry: registry}
}

// MatchContent scans text for a subject's keywords and related terms.
// Matching is case-insensitive substring matching; each list entry counts at
// most once no matter how often it occurs in the text. Keywords are worth 10
// points, related terms 5. A text that hits nothing returns (zero, false) —
// there is no such thing as a zero-score match. An unknown subject id also
// returns (zero, false), never an error.
func (m *Matcher) MatchContent(text, subjectID string) (models.SubjectMatch, bool) {
	subj, ok := m.registry.Get(subjectID)
	if !ok {
		return models.SubjectMatch{}, false
	}

	folded := strings.ToLower(text)
	match := models.SubjectMatch{SubjectID: subjectID}

	for _, kw := range subj.Keywords {
		if kw != "" && strings.Contains(folded, strings.ToLower(kw)) {
			match.MatchedKeywords = append(match.MatchedKeywords, kw)
			match.RelevanceScore += keywordScore
		}
	}
	for _, term := range subj.RelatedTerms {
		if term != "" && strings.Contains(folded, strings.ToLower(term)) {
			match.MatchedKeywords = append(match.MatchedKeywords, term)
			match.RelevanceScore += relatedTermScore
		}
	}

	if len(match.MatchedKeywords) == 0 {
		return models.SubjectMatch{}, false
	}
	return match, true
}

// IsRelevantToSubject reports whether an article's title plus content
// matches the subject at all.
func (m *Matcher) IsRelevantToSubject(title, content, subjectID string) bool {
	match, ok := m.MatchContent(title+" "+content, subjectID)
	return ok && match.RelevanceScore > 0
}
