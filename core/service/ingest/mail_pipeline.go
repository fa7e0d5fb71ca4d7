package ingest

import (
	"context"
	"sort"

	"github.com/chadBookW/email-final/core/domain"
	"github.com/chadBookW/email-final/core/port/out"
	"github.com/chadBookW/email-final/pkg/apperr"
	"github.com/chadBookW/email-final/pkg/logger"
)

// Pipeline pulls pages from the mailbox, normalizes each listed message,
// filters against tombstones and already-stored ids, and persists the
// remainder. One instance per authenticated account; calls are expected to
// be serialized by the deployment.
type Pipeline struct {
	mailbox out.Mailbox
	repo    out.MessageRepository
}

// NewPipeline creates an ingestion pipeline over the given mailbox and store.
func NewPipeline(mailbox out.Mailbox, repo out.MessageRepository) *Pipeline {
	return &Pipeline{
		mailbox: mailbox,
		repo:    repo,
	}
}

// Ingest runs one full ingestion pass and returns the newly stored messages.
//
// The tombstone set is loaded before any page is fetched, so every deletion
// committed before this call starts is honored. Candidates are accumulated
// across ALL pages and sorted date-descending as one set; provider page order
// carries no temporal guarantee. Inserts are idempotent: an id already in the
// store is skipped, never overwritten. A per-message decode or date failure
// skips that message only; a transport failure aborts the pass, but anything
// inserted by earlier passes stays.
func (p *Pipeline) Ingest(ctx context.Context) ([]*domain.Message, error) {
	if p.mailbox == nil {
		return nil, apperr.ProviderError("mailbox not configured", nil)
	}

	tombstoned, err := p.loadTombstones(ctx)
	if err != nil {
		return nil, err
	}

	candidates, err := p.collect(ctx, tombstoned)
	if err != nil {
		return nil, err
	}

	// Newest first, across the entire result set.
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Date.After(candidates[j].Date)
	})

	return p.commit(ctx, candidates)
}

func (p *Pipeline) loadTombstones(ctx context.Context) (map[string]struct{}, error) {
	ids, err := p.repo.TombstonedIDs(ctx)
	if err != nil {
		return nil, apperr.DatabaseError("load tombstones", err)
	}

	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// collect pages through the mailbox and builds the candidate list.
func (p *Pipeline) collect(ctx context.Context, tombstoned map[string]struct{}) ([]*domain.Message, error) {
	var candidates []*domain.Message

	pageToken := ""
	for {
		page, err := p.mailbox.ListMessages(ctx, pageToken)
		if err != nil {
			return nil, apperr.ProviderError("list messages", err)
		}

		for _, id := range page.IDs {
			if _, skip := tombstoned[id]; skip {
				logger.Debug("Skipping tombstoned message %s", id)
				continue
			}

			raw, err := p.mailbox.GetMessage(ctx, id)
			if err != nil {
				return nil, apperr.ProviderError("get message", err)
			}

			parsed := Parse(raw)

			when, err := NormalizeDate(parsed.DateHeader)
			if err != nil {
				// Skip-and-log: a bad date header drops the message from
				// this batch without aborting it.
				logger.WithError(err).Warn("Skipping message %s with unparseable date", id)
				continue
			}

			candidates = append(candidates, &domain.Message{
				ID:      parsed.ID,
				Subject: parsed.Subject,
				Sender:  parsed.Sender,
				Date:    when,
				Body:    parsed.Body,
			})
		}

		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	return candidates, nil
}

// commit inserts candidates in sorted order, skipping ids already stored.
// An insert failure returns the prefix stored so far along with the error;
// committed rows are never rolled back.
func (p *Pipeline) commit(ctx context.Context, candidates []*domain.Message) ([]*domain.Message, error) {
	stored := make([]*domain.Message, 0, len(candidates))

	for _, msg := range candidates {
		exists, err := p.repo.Exists(ctx, msg.ID)
		if err != nil {
			logger.WithError(err).Error("Existence check failed for message %s", msg.ID)
			return stored, apperr.DatabaseError("existence check", err)
		}
		if exists {
			continue
		}

		if err := p.repo.Insert(ctx, msg); err != nil {
			logger.WithError(err).Error("Insert failed for message %s", msg.ID)
			return stored, apperr.DatabaseError("insert message", err)
		}
		stored = append(stored, msg)
	}

	if len(stored) > 0 {
		logger.Info("Ingestion stored %d new message(s)", len(stored))
	}
	return stored, nil
}
