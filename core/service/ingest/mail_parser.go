// Package ingest implements the mail ingestion pipeline: payload parsing,
// date normalization, tombstone/dedup filtering and idempotent persistence.
package ingest

import (
	"encoding/base64"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/chadBookW/email-final/core/domain"
	"github.com/chadBookW/email-final/core/port/out"
	"github.com/chadBookW/email-final/pkg/apperr"
	"github.com/chadBookW/email-final/pkg/logger"
)

// ParsedMessage is the normalized form of a raw provider payload. DateHeader
// is the untouched Date header value; NormalizeDate turns it into an instant.
type ParsedMessage struct {
	ID         string
	Subject    string
	Sender     string
	DateHeader string
	Body       string
}

// Parse normalizes a raw provider message. Header lookup is case-sensitive on
// the names the provider supplied. A body that cannot be decoded is treated
// as empty; Parse itself never fails.
func Parse(raw *out.RawMessage) *ParsedMessage {
	parsed := &ParsedMessage{
		ID:         raw.ID,
		Subject:    domain.DefaultSubject,
		Sender:     domain.DefaultSender,
		DateHeader: raw.Headers["Date"],
	}

	if subject, ok := raw.Headers["Subject"]; ok {
		parsed.Subject = subject
	}
	if sender, ok := raw.Headers["From"]; ok {
		parsed.Sender = sender
	}

	parsed.Body = resolveBody(raw)
	return parsed
}

// resolveBody picks the canonical text body: inline data first, then the
// first text/plain part with data, otherwise empty.
func resolveBody(raw *out.RawMessage) string {
	if raw.BodyData != "" {
		body, err := decodeBody(raw.ID, raw.BodyData)
		if err != nil {
			logger.WithError(err).Warn("Failed to decode inline body for message %s, storing empty body", raw.ID)
			return ""
		}
		return body
	}

	for _, part := range raw.Parts {
		if part.MimeType != "text/plain" || part.BodyData == "" {
			continue
		}
		body, err := decodeBody(raw.ID, part.BodyData)
		if err != nil {
			logger.WithError(err).Warn("Failed to decode text/plain part for message %s, storing empty body", raw.ID)
			return ""
		}
		return body
	}

	return ""
}

// decodeBody decodes URL-safe base64 into UTF-8 text. Providers differ on
// padding, so both padded and raw alphabets are accepted.
func decodeBody(messageID, data string) (string, error) {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		decoded, err = base64.RawURLEncoding.DecodeString(data)
		if err != nil {
			return "", apperr.DecodeFailed(messageID, fmt.Errorf("malformed base64 body: %w", err))
		}
	}

	if !utf8.Valid(decoded) {
		return "", apperr.DecodeFailed(messageID, errors.New("body is not valid UTF-8"))
	}

	return string(decoded), nil
}
