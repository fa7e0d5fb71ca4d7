package enrich

import (
	"context"
	"testing"

	"github.com/chadBookW/email-final/core/domain"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		body string
		want domain.Category
	}{
		{
			name: "work vocabulary",
			body: "The project deadline moved to Friday, check the sprint board.",
			want: domain.CategoryWork,
		},
		{
			name: "personal vocabulary",
			body: "Are you coming to the birthday dinner this weekend?",
			want: domain.CategoryPersonal,
		},
		{
			name: "work wins when both match",
			body: "Client meeting first, then the birthday party.",
			want: domain.CategoryWork,
		},
		{
			name: "no vocabulary match",
			body: "The weather has been unremarkable lately.",
			want: domain.CategoryUnknown,
		},
		{
			name: "empty body",
			body: "",
			want: domain.CategoryUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Categorize(tt.body); got != tt.want {
				t.Errorf("Categorize(%q) = %q, want %q", tt.body, got, tt.want)
			}
		})
	}
}

func TestGenericEnricher(t *testing.T) {
	enricher := NewEnricher(StrategyGeneric, 5)

	msg := &domain.Message{
		ID:   "m1",
		Body: "This is a wonderful update about the amazing launch results",
	}
	enr := enricher.Enrich(msg)

	if len(enr.Keywords) == 0 {
		t.Fatal("expected keywords, got none")
	}
	if len(enr.Keywords) > 5 {
		t.Errorf("keywords = %d, want at most 5", len(enr.Keywords))
	}
	for _, kw := range enr.Keywords {
		if _, stop := stopwords[kw]; stop {
			t.Errorf("stopword %q leaked into keywords", kw)
		}
	}
	if enr.Sentiment.Positive == 0 && enr.Sentiment.Negative == 0 && enr.Sentiment.Neutral == 0 {
		t.Error("sentiment was not scored")
	}
	// Generic strategy never categorizes.
	if enr.Category != "" {
		t.Errorf("Category = %q, want empty", enr.Category)
	}
}

func TestGenericEnricherEmptyBody(t *testing.T) {
	enricher := NewEnricher(StrategyGeneric, 5)

	enr := enricher.Enrich(&domain.Message{ID: "m2"})
	if enr.Keywords == nil || len(enr.Keywords) != 0 {
		t.Errorf("Keywords = %v, want empty non-nil slice", enr.Keywords)
	}
	if enr.Sentiment != (domain.Sentiment{}) {
		t.Errorf("Sentiment = %+v, want zero", enr.Sentiment)
	}
}

func TestDomainEnricher(t *testing.T) {
	enricher := NewEnricher(StrategyDomain, 10)

	msg := &domain.Message{
		ID:   "m3",
		Body: "Please send the invoice before the meeting and confirm the budget.",
	}
	enr := enricher.Enrich(msg)

	if enr.Category != domain.CategoryWork {
		t.Errorf("Category = %q, want %q", enr.Category, domain.CategoryWork)
	}

	found := map[string]bool{}
	for _, kw := range enr.Keywords {
		found[kw] = true
	}
	for _, want := range []string{"invoice", "meeting", "budget"} {
		if !found[want] {
			t.Errorf("keywords %v missing topic %q", enr.Keywords, want)
		}
	}
}

func TestNewEnricherDefaultsToGeneric(t *testing.T) {
	if _, ok := NewEnricher("unheard-of", 0).(*GenericEnricher); !ok {
		t.Error("unknown strategy did not fall back to generic")
	}
}

// recordingCache counts reads and writes so cache behavior is observable.
type recordingCache struct {
	entries map[string]*domain.Enrichment
	sets    int
}

func (c *recordingCache) GetEnrichment(_ context.Context, id string) (*domain.Enrichment, bool, error) {
	enr, ok := c.entries[id]
	return enr, ok, nil
}

func (c *recordingCache) SetEnrichment(_ context.Context, id string, enr *domain.Enrichment) error {
	c.entries[id] = enr
	c.sets++
	return nil
}

func TestCachedEnricher(t *testing.T) {
	cache := &recordingCache{entries: make(map[string]*domain.Enrichment)}
	var writebacks int

	enricher := NewCachedEnricher(NewEnricher(StrategyGeneric, 5), cache).
		WithWriteBack(func(context.Context, string, *domain.Enrichment) {
			writebacks++
		})

	msg := &domain.Message{ID: "m4", Body: "Great news about the launch"}

	first := enricher.Enrich(msg)
	if cache.sets != 1 {
		t.Errorf("cache sets = %d after miss, want 1", cache.sets)
	}
	if writebacks != 1 {
		t.Errorf("writebacks = %d after miss, want 1", writebacks)
	}

	second := enricher.Enrich(msg)
	if cache.sets != 1 {
		t.Errorf("cache sets = %d after hit, want still 1", cache.sets)
	}
	if writebacks != 1 {
		t.Errorf("writebacks = %d after hit, want still 1", writebacks)
	}
	if len(first.Keywords) != len(second.Keywords) {
		t.Errorf("cached result diverged: %v vs %v", first.Keywords, second.Keywords)
	}
}

func TestCachedEnricherWithoutCache(t *testing.T) {
	enricher := NewCachedEnricher(NewEnricher(StrategyGeneric, 5), nil)

	enr := enricher.Enrich(&domain.Message{ID: "m5", Body: "hello there world"})
	if enr == nil || enr.Keywords == nil {
		t.Fatal("nil cache must not disable enrichment")
	}
}
