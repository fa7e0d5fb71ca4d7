package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/chadBookW/email-final/core/domain"
	"github.com/chadBookW/email-final/core/port/in"
	"github.com/chadBookW/email-final/infra/middleware"
	"github.com/chadBookW/email-final/pkg/apperr"
)

// fakeMailService scripts the service layer for handler tests.
type fakeMailService struct {
	emails     []*domain.EnrichedMessage
	replyErr   error
	sendErr    error
	deletedIDs []string
}

func (f *fakeMailService) RefreshAndList(context.Context) ([]*domain.EnrichedMessage, error) {
	return f.emails, nil
}

func (f *fakeMailService) Get(_ context.Context, id string) (*domain.EnrichedMessage, error) {
	for _, e := range f.emails {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, apperr.NotFound("message " + id + " not found")
}

func (f *fakeMailService) Delete(_ context.Context, ids []string) (*in.DeleteResult, error) {
	if len(ids) == 0 {
		return nil, apperr.ValidationFailed("email_ids must not be empty")
	}
	f.deletedIDs = ids
	return &in.DeleteResult{Deleted: len(ids)}, nil
}

func (f *fakeMailService) GenerateReply(context.Context, string) (*domain.Reply, error) {
	if f.replyErr != nil {
		return nil, f.replyErr
	}
	return &domain.Reply{Subject: "Re: hello", Body: "Thanks."}, nil
}

func (f *fakeMailService) Send(context.Context, string, string, string) error {
	return f.sendErr
}

func newTestApp(svc in.MailService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Use(middleware.RequestID())
	NewMailHandler(svc).Register(app)
	return app
}

func enriched(id string) *domain.EnrichedMessage {
	return domain.Annotate(&domain.Message{
		ID:      id,
		Subject: "subject " + id,
		Sender:  id + "@example.com",
		Date:    time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		Body:    "hello",
	}, &domain.Enrichment{Keywords: []string{"hello"}})
}

func TestListEmails(t *testing.T) {
	svc := &fakeMailService{emails: []*domain.EnrichedMessage{enriched("a"), enriched("b")}}
	app := newTestApp(svc)

	resp, err := app.Test(httptest.NewRequest("GET", "/emails", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var got []map[string]any
	decodeJSON(t, resp.Body, &got)
	if len(got) != 2 {
		t.Fatalf("body items = %d, want 2", len(got))
	}
	if got[0]["id"] != "a" {
		t.Errorf("first id = %v, want a", got[0]["id"])
	}
}

func TestGetEmail(t *testing.T) {
	svc := &fakeMailService{emails: []*domain.EnrichedMessage{enriched("a")}}
	app := newTestApp(svc)

	resp, err := app.Test(httptest.NewRequest("GET", "/emails/a", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/emails/absent", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestDeleteEmails(t *testing.T) {
	svc := &fakeMailService{}
	app := newTestApp(svc)

	req := httptest.NewRequest("POST", "/emails/delete",
		bytes.NewBufferString(`{"email_ids":["a","b"]}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if len(svc.deletedIDs) != 2 {
		t.Errorf("service saw %v, want both ids", svc.deletedIDs)
	}

	var body map[string]any
	decodeJSON(t, resp.Body, &body)
	if body["deleted"] != float64(2) {
		t.Errorf("deleted = %v, want 2", body["deleted"])
	}
}

func TestDeleteEmailsEmptyList(t *testing.T) {
	app := newTestApp(&fakeMailService{})

	req := httptest.NewRequest("POST", "/emails/delete",
		bytes.NewBufferString(`{"email_ids":[]}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	var body map[string]any
	decodeJSON(t, resp.Body, &body)
	errObj, _ := body["error"].(map[string]any)
	if errObj["code"] != apperr.CodeValidationFailed {
		t.Errorf("error code = %v, want VALIDATION_FAILED", errObj["code"])
	}
}

func TestMalformedBodyRejected(t *testing.T) {
	app := newTestApp(&fakeMailService{})

	paths := []string{"/emails/delete", "/generate_reply", "/send_email"}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest("POST", path,
				bytes.NewBufferString(`{"email_ids": not-json`))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			if resp.StatusCode != fiber.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}

			var body map[string]any
			decodeJSON(t, resp.Body, &body)
			errObj, _ := body["error"].(map[string]any)
			if errObj["code"] != apperr.CodeBadRequest {
				t.Errorf("error code = %v, want BAD_REQUEST", errObj["code"])
			}
		})
	}
}

func TestGenerateReply(t *testing.T) {
	app := newTestApp(&fakeMailService{})

	req := httptest.NewRequest("POST", "/generate_reply",
		bytes.NewBufferString(`{"body":"hello there"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body map[string]any
	decodeJSON(t, resp.Body, &body)
	if body["subject"] != "Re: hello" || body["body"] != "Thanks." {
		t.Errorf("body = %v", body)
	}
}

func TestGenerateReplyModelFailure(t *testing.T) {
	app := newTestApp(&fakeMailService{replyErr: apperr.ModelError(nil)})

	req := httptest.NewRequest("POST", "/generate_reply",
		bytes.NewBufferString(`{"body":"hello"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode < 500 {
		t.Errorf("status = %d, want 5xx for model failure", resp.StatusCode)
	}
}

func TestSendEmail(t *testing.T) {
	app := newTestApp(&fakeMailService{})

	req := httptest.NewRequest("POST", "/send_email",
		bytes.NewBufferString(`{"recipient":"to@example.com","subject":"hi","body":"hello"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body map[string]any
	decodeJSON(t, resp.Body, &body)
	if body["status"] != "sent" {
		t.Errorf("status field = %v, want sent", body["status"])
	}
}

func decodeJSON(t *testing.T, r io.Reader, dest any) {
	t.Helper()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		t.Fatalf("unmarshal %q: %v", data, err)
	}
}
