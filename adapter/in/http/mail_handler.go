// Package http provides the inbound HTTP adapter.
package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/chadBookW/email-final/core/port/in"
	"github.com/chadBookW/email-final/pkg/apperr"
)

// MailHandler exposes the mail service over HTTP.
type MailHandler struct {
	service in.MailService
}

// NewMailHandler creates a new MailHandler.
func NewMailHandler(service in.MailService) *MailHandler {
	return &MailHandler{service: service}
}

// Register mounts the mail routes.
func (h *MailHandler) Register(app fiber.Router) {
	app.Get("/emails", h.ListEmails)
	app.Get("/emails/:id", h.GetEmail)
	app.Post("/emails/delete", h.DeleteEmails)
	app.Post("/generate_reply", h.GenerateReply)
	app.Post("/send_email", h.SendEmail)
}

// ListEmails triggers ingestion and returns every stored message, newest
// first, annotated with enrichment.
func (h *MailHandler) ListEmails(c *fiber.Ctx) error {
	emails, err := h.service.RefreshAndList(c.Context())
	if err != nil {
		return AppErrorResponse(c, err)
	}
	return c.JSON(emails)
}

// GetEmail returns a single enriched message by id.
func (h *MailHandler) GetEmail(c *fiber.Ctx) error {
	email, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return AppErrorResponse(c, err)
	}
	return c.JSON(email)
}

type deleteEmailsRequest struct {
	EmailIDs []string `json:"email_ids"`
}

// DeleteEmails removes the listed messages and tombstones their ids.
// An empty id list is rejected with 400.
func (h *MailHandler) DeleteEmails(c *fiber.Ctx) error {
	var req deleteEmailsRequest
	if err := c.BodyParser(&req); err != nil {
		return AppErrorResponse(c, apperr.BadRequest("invalid request body"))
	}

	result, err := h.service.Delete(c.Context(), req.EmailIDs)
	if err != nil {
		return AppErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"status":  "ok",
		"deleted": result.Deleted,
		"missing": result.Missing,
	})
}

type generateReplyRequest struct {
	Body string `json:"body"`
}

// GenerateReply composes a suggested reply for an email body.
func (h *MailHandler) GenerateReply(c *fiber.Ctx) error {
	var req generateReplyRequest
	if err := c.BodyParser(&req); err != nil {
		return AppErrorResponse(c, apperr.BadRequest("invalid request body"))
	}

	reply, err := h.service.GenerateReply(c.Context(), req.Body)
	if err != nil {
		return AppErrorResponse(c, err)
	}
	return c.JSON(reply)
}

type sendEmailRequest struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

// SendEmail submits an outgoing message via the mail provider.
func (h *MailHandler) SendEmail(c *fiber.Ctx) error {
	var req sendEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return AppErrorResponse(c, apperr.BadRequest("invalid request body"))
	}

	if err := h.service.Send(c.Context(), req.Recipient, req.Subject, req.Body); err != nil {
		return AppErrorResponse(c, err)
	}

	return c.JSON(fiber.Map{"status": "sent"})
}
