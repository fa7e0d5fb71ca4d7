package mail

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/chadBookW/email-final/core/domain"
	"github.com/chadBookW/email-final/core/port/out"
	"github.com/chadBookW/email-final/core/service/enrich"
	"github.com/chadBookW/email-final/core/service/ingest"
	"github.com/chadBookW/email-final/pkg/apperr"
)

// memoryRepo is an in-memory MessageRepository for service tests.
type memoryRepo struct {
	stored     map[string]*domain.Message
	tombstones map[string]struct{}
	deleteErr  error
}

func newMemoryRepo(msgs ...*domain.Message) *memoryRepo {
	r := &memoryRepo{
		stored:     make(map[string]*domain.Message),
		tombstones: make(map[string]struct{}),
	}
	for _, m := range msgs {
		r.stored[m.ID] = m
	}
	return r
}

func (r *memoryRepo) Insert(_ context.Context, msg *domain.Message) error {
	if _, ok := r.stored[msg.ID]; !ok {
		r.stored[msg.ID] = msg
	}
	return nil
}

func (r *memoryRepo) Exists(_ context.Context, id string) (bool, error) {
	_, ok := r.stored[id]
	return ok, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id string) (*domain.Message, error) {
	msg, ok := r.stored[id]
	if !ok {
		return nil, apperr.NotFound("message " + id + " not found")
	}
	return msg, nil
}

func (r *memoryRepo) ListAll(context.Context) ([]*domain.Message, error) {
	msgs := make([]*domain.Message, 0, len(r.stored))
	for _, m := range r.stored {
		msgs = append(msgs, m)
	}
	return msgs, nil
}

func (r *memoryRepo) DeleteWithTombstone(_ context.Context, id string) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.stored[id]; !ok {
		return apperr.NotFound("message " + id + " not found")
	}
	delete(r.stored, id)
	r.tombstones[id] = struct{}{}
	return nil
}

func (r *memoryRepo) TombstonedIDs(context.Context) ([]string, error) {
	ids := make([]string, 0, len(r.tombstones))
	for id := range r.tombstones {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *memoryRepo) UpdateEnrichment(context.Context, string, *domain.Enrichment) error {
	return nil
}

type staticModel struct {
	response string
	err      error
}

func (m *staticModel) Complete(context.Context, string) (string, error) {
	return m.response, m.err
}

type sendRecorder struct {
	sent []*out.SendRequest
	err  error
}

func (s *sendRecorder) ListMessages(context.Context, string) (*out.MessagePage, error) {
	return &out.MessagePage{}, nil
}

func (s *sendRecorder) GetMessage(context.Context, string) (*out.RawMessage, error) {
	return nil, errors.New("not implemented")
}

func (s *sendRecorder) SendMessage(_ context.Context, req *out.SendRequest) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, req)
	return nil
}

func newTestService(repo *memoryRepo, mailbox out.Mailbox, model out.ReplyModel) *Service {
	enricher := enrich.NewCachedEnricher(enrich.NewEnricher(enrich.StrategyGeneric, 5), nil)
	return NewService(ingest.NewPipeline(mailbox, repo), repo, mailbox, enricher, model)
}

func sampleMessage(id string) *domain.Message {
	return &domain.Message{
		ID:      id,
		Subject: "subject " + id,
		Sender:  id + "@example.com",
		Date:    time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		Body:    "great progress on everything",
	}
}

func TestRefreshAndListSurvivesIngestFailure(t *testing.T) {
	repo := newMemoryRepo(sampleMessage("stored"))
	// nil mailbox: ingestion reports a provider error, stored rows must
	// still be served.
	svc := newTestService(repo, nil, nil)

	emails, err := svc.RefreshAndList(context.Background())
	if err != nil {
		t.Fatalf("RefreshAndList: %v", err)
	}
	if len(emails) != 1 || emails[0].ID != "stored" {
		t.Fatalf("emails = %v, want the stored row", emails)
	}
	if emails[0].Keywords == nil {
		t.Error("enrichment annotation missing")
	}
}

func TestGet(t *testing.T) {
	repo := newMemoryRepo(sampleMessage("m1"))
	svc := newTestService(repo, nil, nil)

	got, err := svc.Get(context.Background(), "m1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != "m1" || got.Subject != "subject m1" {
		t.Errorf("got = %+v", got.Message)
	}

	if _, err := svc.Get(context.Background(), "absent"); !apperr.IsCode(err, apperr.CodeNotFound) {
		t.Errorf("Get(absent) error = %v, want NOT_FOUND", err)
	}
	if _, err := svc.Get(context.Background(), ""); !apperr.IsCode(err, apperr.CodeMissingField) {
		t.Errorf("Get(\"\") error = %v, want MISSING_FIELD", err)
	}
}

func TestDeleteEmptyList(t *testing.T) {
	svc := newTestService(newMemoryRepo(), nil, nil)

	_, err := svc.Delete(context.Background(), nil)
	if !apperr.IsCode(err, apperr.CodeValidationFailed) {
		t.Fatalf("Delete(nil) error = %v, want VALIDATION_FAILED", err)
	}
}

func TestDeleteToleratesMissingIDs(t *testing.T) {
	repo := newMemoryRepo(sampleMessage("a"), sampleMessage("b"))
	svc := newTestService(repo, nil, nil)

	result, err := svc.Delete(context.Background(), []string{"a", "ghost", "b"})
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if result.Deleted != 2 || result.Missing != 1 {
		t.Errorf("result = %+v, want 2 deleted / 1 missing", result)
	}
	if _, ok := repo.tombstones["a"]; !ok {
		t.Error("deleted id a has no tombstone")
	}
	if _, ok := repo.tombstones["ghost"]; ok {
		t.Error("missing id ghost must not be tombstoned")
	}
}

func TestDeleteAbortsOnRepositoryError(t *testing.T) {
	repo := newMemoryRepo(sampleMessage("a"))
	repo.deleteErr = errors.New("connection lost")
	svc := newTestService(repo, nil, nil)

	_, err := svc.Delete(context.Background(), []string{"a"})
	if !apperr.IsCode(err, apperr.CodeDatabaseError) {
		t.Fatalf("Delete error = %v, want DATABASE_ERROR", err)
	}
}

func TestGenerateReply(t *testing.T) {
	svc := newTestService(newMemoryRepo(), nil, &staticModel{
		response: "Subject: Re: hello\nThanks for reaching out.",
	})

	reply, err := svc.GenerateReply(context.Background(), "hello there")
	if err != nil {
		t.Fatalf("GenerateReply: %v", err)
	}
	if reply.Subject != "Re: hello" || reply.Body != "Thanks for reaching out." {
		t.Errorf("reply = %+v", reply)
	}
}

func TestGenerateReplyErrors(t *testing.T) {
	svc := newTestService(newMemoryRepo(), nil, &staticModel{err: errors.New("quota")})

	if _, err := svc.GenerateReply(context.Background(), "body"); !apperr.IsCode(err, apperr.CodeModelError) {
		t.Errorf("model failure error = %v, want MODEL_ERROR", err)
	}
	if _, err := svc.GenerateReply(context.Background(), ""); !apperr.IsCode(err, apperr.CodeMissingField) {
		t.Errorf("empty body error = %v, want MISSING_FIELD", err)
	}

	// No model configured at all.
	svc = newTestService(newMemoryRepo(), nil, nil)
	if _, err := svc.GenerateReply(context.Background(), "body"); !apperr.IsCode(err, apperr.CodeModelError) {
		t.Errorf("nil model error = %v, want MODEL_ERROR", err)
	}
}

func TestSend(t *testing.T) {
	mailbox := &sendRecorder{}
	svc := newTestService(newMemoryRepo(), mailbox, nil)

	if err := svc.Send(context.Background(), "to@example.com", "hi", "body"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if len(mailbox.sent) != 1 || mailbox.sent[0].Recipient != "to@example.com" {
		t.Errorf("sent = %+v", mailbox.sent)
	}

	if err := svc.Send(context.Background(), "", "hi", "body"); !apperr.IsCode(err, apperr.CodeMissingField) {
		t.Errorf("empty recipient error = %v, want MISSING_FIELD", err)
	}

	svc = newTestService(newMemoryRepo(), nil, nil)
	if err := svc.Send(context.Background(), "to@example.com", "hi", "body"); !apperr.IsCode(err, apperr.CodeProviderError) {
		t.Errorf("nil mailbox error = %v, want PROVIDER_ERROR", err)
	}
}
