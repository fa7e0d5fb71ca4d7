package out

import (
	"context"

	"github.com/chadBookW/email-final/core/domain"
)

// EnrichmentCache is a TTL cache for computed enrichment, keyed by message id.
// A miss is (nil, false, nil); cache errors are reported but callers treat
// them as misses.
type EnrichmentCache interface {
	GetEnrichment(ctx context.Context, id string) (*domain.Enrichment, bool, error)
	SetEnrichment(ctx context.Context, id string, enr *domain.Enrichment) error
}
