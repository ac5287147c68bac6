package relevance

import (
	"reflect"
	"testing"

	"github.com/DasBoogs/news-fetcher/internal/subject"
	"github.com/DasBoogs/news-fetcher/models"
)

func testMatcher(t *testing.T) *Matcher {
	t.Helper()
	r := subject.NewRegistry()
	r.Add(models.Subject{
		ID:           "ai",
		Name:         "Artificial Intelligence",
		Keywords:     []string{"Machine Learning", "LLM"},
		RelatedTerms: []string{"transformer", "GPT"},
	})
	return NewMatcher(r)
}

func TestMatchContentUnknownSubject(t *testing.T) {
	m := testMatcher(t)
	if _, ok := m.MatchContent("machine learning is great", "unknown"); ok {
		t.Fatalf("unknown subject must report no match")
	}
	if m.IsRelevantToSubject("machine learning", "anything", "unknown") {
		t.Fatalf("unknown subject must not be relevant")
	}
}

func TestMatchContentKeywordCaseInsensitiveSubstring(t *testing.T) {
	m := testMatcher(t)
	match, ok := m.MatchContent("new MACHINE LEARNING results from anllmlab", "ai")
	if !ok {
		t.Fatalf("expected a match")
	}
	// both the keyword and the substring-inside-a-token hit count
	want := []string{"Machine Learning", "LLM"}
	if !reflect.DeepEqual(match.MatchedKeywords, want) {
		t.Errorf("expected original-case keywords %v, got %v", want, match.MatchedKeywords)
	}
	if match.RelevanceScore != 20 {
		t.Errorf("expected score 20 for two keywords, got %d", match.RelevanceScore)
	}
}

func TestMatchContentRelatedTermsOnly(t *testing.T) {
	m := testMatcher(t)
	match, ok := m.MatchContent("a transformer paper citing gpt", "ai")
	if !ok {
		t.Fatalf("expected a match")
	}
	if match.RelevanceScore != 10 {
		t.Errorf("two related terms must score exactly 5x2, got %d", match.RelevanceScore)
	}
	want := []string{"transformer", "GPT"}
	if !reflect.DeepEqual(match.MatchedKeywords, want) {
		t.Errorf("expected %v, got %v", want, match.MatchedKeywords)
	}
}

func TestMatchContentRepeatedOccurrenceCountsOnce(t *testing.T) {
	m := testMatcher(t)
	match, ok := m.MatchContent("llm llm llm llm", "ai")
	if !ok {
		t.Fatalf("expected a match")
	}
	if match.RelevanceScore != 10 {
		t.Errorf("repeated occurrences must count once per list entry, got %d", match.RelevanceScore)
	}
}

func TestMatchContentDuplicateTermAcrossTiers(t *testing.T) {
	r := subject.NewRegistry()
	r.Add(models.Subject{
		ID:           "go",
		Keywords:     []string{"golang"},
		RelatedTerms: []string{"golang"},
	})
	m := NewMatcher(r)

	match, ok := m.MatchContent("all about golang", "go")
	if !ok {
		t.Fatalf("expected a match")
	}
	if match.RelevanceScore != 15 {
		t.Errorf("term in both tiers must contribute 10+5, got %d", match.RelevanceScore)
	}
	if len(match.MatchedKeywords) != 2 {
		t.Errorf("term in both tiers must appear twice, got %v", match.MatchedKeywords)
	}
}

func TestMatchContentNoMatchIsAbsentNotZero(t *testing.T) {
	m := testMatcher(t)
	if _, ok := m.MatchContent("cooking recipes for pasta", "ai"); ok {
		t.Fatalf("zero matches means no match, never a zero-score match")
	}
	if _, ok := m.MatchContent("", "ai"); ok {
		t.Fatalf("empty text must report no match")
	}
}

func TestIsRelevantToSubjectConcatenatesTitleAndContent(t *testing.T) {
	m := testMatcher(t)
	if !m.IsRelevantToSubject("intro to", "machine learning", "ai") {
		t.Fatalf("content-only hit must be relevant")
	}
	if !m.IsRelevantToSubject("LLM benchmarks", "", "ai") {
		t.Fatalf("title-only hit must be relevant")
	}
	if m.IsRelevantToSubject("gardening", "tips", "ai") {
		t.Fatalf("unrelated text must not be relevant")
	}
}
