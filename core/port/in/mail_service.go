// Package in defines inbound ports consumed by the HTTP layer.
package in

import (
	"context"

	"github.com/chadBookW/email-final/core/domain"
)

// DeleteResult summarizes a batch delete. Missing ids are tolerated and
// counted, not treated as failures.
type DeleteResult struct {
	Deleted int `json:"deleted"`
	Missing int `json:"missing"`
}

// MailService is the application surface behind the HTTP handlers.
type MailService interface {
	// RefreshAndList runs ingestion (best effort) and returns all stored
	// messages newest first, annotated with enrichment.
	RefreshAndList(ctx context.Context) ([]*domain.EnrichedMessage, error)

	// Get returns one enriched message or an apperr NOT_FOUND error.
	Get(ctx context.Context, id string) (*domain.EnrichedMessage, error)

	// Delete removes the listed messages and tombstones their ids. An empty
	// id list is a VALIDATION_FAILED error.
	Delete(ctx context.Context, ids []string) (*DeleteResult, error)

	// GenerateReply produces a subject/body reply for an email body.
	GenerateReply(ctx context.Context, body string) (*domain.Reply, error)

	// Send composes and submits an outgoing message via the mail provider.
	Send(ctx context.Context, recipient, subject, body string) error
}
