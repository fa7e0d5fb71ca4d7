// Package mail orchestrates ingestion, enrichment, deletion and outbound
// sending behind the inbound MailService port.
package mail

import (
	"context"

	"github.com/chadBookW/email-final/core/agent/llm"
	"github.com/chadBookW/email-final/core/domain"
	"github.com/chadBookW/email-final/core/port/in"
	"github.com/chadBookW/email-final/core/port/out"
	"github.com/chadBookW/email-final/core/service/enrich"
	"github.com/chadBookW/email-final/core/service/ingest"
	"github.com/chadBookW/email-final/pkg/apperr"
	"github.com/chadBookW/email-final/pkg/logger"
)

type Service struct {
	pipeline *ingest.Pipeline
	repo     out.MessageRepository
	mailbox  out.Mailbox
	enricher *enrich.CachedEnricher
	model    out.ReplyModel
}

func NewService(
	pipeline *ingest.Pipeline,
	repo out.MessageRepository,
	mailbox out.Mailbox,
	enricher *enrich.CachedEnricher,
	model out.ReplyModel,
) *Service {
	return &Service{
		pipeline: pipeline,
		repo:     repo,
		mailbox:  mailbox,
		enricher: enricher,
		model:    model,
	}
}

// RefreshAndList runs an ingestion pass, then serves everything in the store
// newest first. Ingestion failure is logged and tolerated: rows committed by
// this or earlier passes are still listed.
func (s *Service) RefreshAndList(ctx context.Context) ([]*domain.EnrichedMessage, error) {
	if _, err := s.pipeline.Ingest(ctx); err != nil {
		logger.WithError(err).Warn("Ingestion incomplete, serving stored messages")
	}

	msgs, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, apperr.DatabaseError("list messages", err)
	}

	enriched := make([]*domain.EnrichedMessage, 0, len(msgs))
	for _, msg := range msgs {
		enriched = append(enriched, s.annotate(ctx, msg))
	}
	return enriched, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.EnrichedMessage, error) {
	if id == "" {
		return nil, apperr.MissingField("id")
	}

	msg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, msg), nil
}

// Delete removes each listed message and tombstones its id. The row delete
// and tombstone insert are one transaction per id; a missing id is skipped
// with a warning and does not fail the batch.
func (s *Service) Delete(ctx context.Context, ids []string) (*in.DeleteResult, error) {
	if len(ids) == 0 {
		return nil, apperr.ValidationFailed("email_ids must not be empty")
	}

	result := &in.DeleteResult{}
	for _, id := range ids {
		err := s.repo.DeleteWithTombstone(ctx, id)
		switch {
		case err == nil:
			result.Deleted++
		case apperr.IsCode(err, apperr.CodeNotFound):
			logger.Warn("Delete requested for unknown message %s, skipping", id)
			result.Missing++
		default:
			return result, apperr.DatabaseError("delete message", err)
		}
	}

	logger.Info("Deleted %d message(s), %d missing", result.Deleted, result.Missing)
	return result, nil
}

func (s *Service) GenerateReply(ctx context.Context, body string) (*domain.Reply, error) {
	if body == "" {
		return nil, apperr.MissingField("body")
	}
	if s.model == nil {
		return nil, apperr.ModelError(nil)
	}

	reply, err := llm.GenerateReply(ctx, s.model, body)
	if err != nil {
		return nil, apperr.ModelError(err)
	}
	return reply, nil
}

func (s *Service) Send(ctx context.Context, recipient, subject, body string) error {
	if recipient == "" {
		return apperr.MissingField("recipient")
	}
	if s.mailbox == nil {
		return apperr.ProviderError("mailbox not configured", nil)
	}

	err := s.mailbox.SendMessage(ctx, &out.SendRequest{
		Recipient: recipient,
		Subject:   subject,
		Body:      body,
	})
	if err != nil {
		return apperr.ProviderError("send message", err)
	}
	return nil
}

func (s *Service) annotate(ctx context.Context, msg *domain.Message) *domain.EnrichedMessage {
	var enr *domain.Enrichment
	if s.enricher != nil {
		enr = s.enricher.EnrichContext(ctx, msg)
	}
	return domain.Annotate(msg, enr)
}

var _ in.MailService = (*Service)(nil)
