package enrich

import (
	"context"
	"strings"

	"github.com/jonreiter/govader"

	"github.com/chadBookW/email-final/core/domain"
	"github.com/chadBookW/email-final/core/port/out"
	"github.com/chadBookW/email-final/pkg/logger"
)

// Strategy names accepted by NewEnricher.
const (
	StrategyGeneric = "generic"
	StrategyDomain  = "domain"

	DefaultMaxKeywords = 10
)

// Enricher computes enrichment for a message. Implementations never fail the
// caller: on any internal error they return a zeroed Enrichment and log.
type Enricher interface {
	Enrich(msg *domain.Message) *domain.Enrichment
}

// NewEnricher returns the strategy named by cfg, defaulting to generic.
func NewEnricher(strategy string, maxKeywords int) Enricher {
	if maxKeywords <= 0 {
		maxKeywords = DefaultMaxKeywords
	}
	analyzer := govader.NewSentimentIntensityAnalyzer()

	switch strategy {
	case StrategyDomain:
		return &DomainEnricher{analyzer: analyzer, maxKeywords: maxKeywords}
	default:
		return &GenericEnricher{analyzer: analyzer, maxKeywords: maxKeywords}
	}
}

// GenericEnricher scores sentiment and extracts the top non-stopword tokens
// as keywords.
type GenericEnricher struct {
	analyzer    *govader.SentimentIntensityAnalyzer
	maxKeywords int
}

func (e *GenericEnricher) Enrich(msg *domain.Message) *domain.Enrichment {
	enr := &domain.Enrichment{Keywords: []string{}}
	if msg == nil || msg.Body == "" {
		return enr
	}

	enr.Sentiment = scoreSentiment(e.analyzer, msg.Body)
	enr.Keywords = genericKeywords(msg.Body, e.maxKeywords)
	return enr
}

// DomainEnricher scores sentiment, unions organization mentions with
// requested-topic matches as keywords, and labels the message with a
// work/personal/unknown category.
type DomainEnricher struct {
	analyzer    *govader.SentimentIntensityAnalyzer
	maxKeywords int
}

func (e *DomainEnricher) Enrich(msg *domain.Message) *domain.Enrichment {
	enr := &domain.Enrichment{
		Keywords: []string{},
		Category: domain.CategoryUnknown,
	}
	if msg == nil || msg.Body == "" {
		return enr
	}

	enr.Sentiment = scoreSentiment(e.analyzer, msg.Body)
	enr.Keywords = domainKeywords(msg.Body, e.maxKeywords)
	enr.Category = Categorize(msg.Body)
	return enr
}

// Categorize labels a body by vocabulary presence; work takes precedence
// when both vocabularies match.
func Categorize(body string) domain.Category {
	lowered := strings.ToLower(body)
	for _, term := range workVocabulary {
		if strings.Contains(lowered, term) {
			return domain.CategoryWork
		}
	}
	for _, term := range personalVocabulary {
		if strings.Contains(lowered, term) {
			return domain.CategoryPersonal
		}
	}
	return domain.CategoryUnknown
}

func scoreSentiment(analyzer *govader.SentimentIntensityAnalyzer, body string) domain.Sentiment {
	scores := analyzer.PolarityScores(body)
	return domain.Sentiment{
		Positive: scores.Positive,
		Negative: scores.Negative,
		Neutral:  scores.Neutral,
	}
}

// CachedEnricher wraps an Enricher with a TTL cache. Cache failures are
// logged and treated as misses; the inner enricher remains the source of
// truth.
type CachedEnricher struct {
	inner      Enricher
	cache      out.EnrichmentCache
	onComputed func(ctx context.Context, id string, enr *domain.Enrichment)
}

// NewCachedEnricher wraps inner with cache. A nil cache disables caching.
func NewCachedEnricher(inner Enricher, cache out.EnrichmentCache) *CachedEnricher {
	return &CachedEnricher{inner: inner, cache: cache}
}

// WithWriteBack registers a best-effort callback invoked whenever enrichment
// is freshly computed, e.g. to persist it onto the stored row.
func (e *CachedEnricher) WithWriteBack(fn func(ctx context.Context, id string, enr *domain.Enrichment)) *CachedEnricher {
	e.onComputed = fn
	return e
}

func (e *CachedEnricher) Enrich(msg *domain.Message) *domain.Enrichment {
	return e.EnrichContext(context.Background(), msg)
}

// EnrichContext looks up the cache before computing, and writes back on a
// miss.
func (e *CachedEnricher) EnrichContext(ctx context.Context, msg *domain.Message) *domain.Enrichment {
	if msg == nil {
		return &domain.Enrichment{Keywords: []string{}}
	}

	if e.cache != nil {
		cached, hit, err := e.cache.GetEnrichment(ctx, msg.ID)
		if err != nil {
			logger.WithError(err).Debug("Enrichment cache read failed for %s", msg.ID)
		} else if hit {
			return cached
		}
	}

	enr := e.inner.Enrich(msg)

	if e.cache != nil {
		if err := e.cache.SetEnrichment(ctx, msg.ID, enr); err != nil {
			logger.WithError(err).Debug("Enrichment cache write failed for %s", msg.ID)
		}
	}
	if e.onComputed != nil {
		e.onComputed(ctx, msg.ID, enr)
	}
	return enr
}
