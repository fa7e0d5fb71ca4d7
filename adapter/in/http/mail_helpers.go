package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/chadBookW/email-final/pkg/apperr"
	"github.com/chadBookW/email-final/pkg/logger"
)

// APIError is the wire shape of an error payload.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// errorEnvelope wraps an APIError with request metadata.
type errorEnvelope struct {
	Error     *APIError `json:"error"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp string    `json:"timestamp"`
}

// AppErrorResponse maps an error to its HTTP status and JSON payload.
// Client-class errors keep their message; 5xx messages hide internals behind
// the AppError message while the cause is logged server-side.
func AppErrorResponse(c *fiber.Ctx, err error) error {
	appErr := apperr.AsAppError(err)
	if appErr.Status >= 500 {
		logger.WithError(err).WithField("path", c.Path()).Error("request failed")
	}
	requestID, _ := c.Locals("request_id").(string)
	return c.Status(appErr.Status).JSON(errorEnvelope{
		Error:     &APIError{Code: appErr.Code, Message: appErr.Message, Details: appErr.Details},
		RequestID: requestID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
