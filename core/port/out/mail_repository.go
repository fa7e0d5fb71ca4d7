package out

import (
	"context"

	"github.com/chadBookW/email-final/core/domain"
)

// MessageRepository is durable keyed storage for normalized messages and
// deletion tombstones.
type MessageRepository interface {
	// Insert stores a new message if its id is absent. Inserting an id that
	// already exists is a no-op; existing rows are never overwritten.
	Insert(ctx context.Context, msg *domain.Message) error

	// Exists reports whether a message with the given id is stored.
	Exists(ctx context.Context, id string) (bool, error)

	// GetByID returns the stored message or an apperr NOT_FOUND error.
	GetByID(ctx context.Context, id string) (*domain.Message, error)

	// ListAll returns every stored message, newest first.
	ListAll(ctx context.Context) ([]*domain.Message, error)

	// DeleteWithTombstone removes the message and records a tombstone for
	// its id in one transaction. Returns an apperr NOT_FOUND error when no
	// such message exists; no tombstone is written in that case.
	DeleteWithTombstone(ctx context.Context, id string) error

	// TombstonedIDs returns every tombstoned id.
	TombstonedIDs(ctx context.Context) ([]string, error)

	// UpdateEnrichment writes computed enrichment back onto the stored row.
	// This is a cache, not the source of truth; failures are non-fatal.
	UpdateEnrichment(ctx context.Context, id string, enr *domain.Enrichment) error
}
