package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/chadBookW/email-final/core/domain"
	"github.com/chadBookW/email-final/core/port/out"
)

// FallbackSubject is used when the model response carries no subject line.
const FallbackSubject = "Re:"

const replyTemplate = `Given the following email body:

%s

Compose a professional and appropriate reply. Start with a subject line on the first line, followed by the reply body.`

// GenerateReply asks the model for a reply and splits the raw response into a
// subject/body pair. Composition is entirely the model's; the only local
// logic is the split and subject cleanup.
func GenerateReply(ctx context.Context, model out.ReplyModel, emailBody string) (*domain.Reply, error) {
	raw, err := model.Complete(ctx, fmt.Sprintf(replyTemplate, emailBody))
	if err != nil {
		return nil, err
	}
	return SplitReply(raw), nil
}

// SplitReply splits a raw model response on the first line break. A response
// without one becomes the body under a generic "Re:" subject.
func SplitReply(raw string) *domain.Reply {
	text := strings.TrimSpace(raw)

	subject, body, found := strings.Cut(text, "\n")
	if !found {
		return &domain.Reply{Subject: FallbackSubject, Body: text}
	}

	subject = cleanSubject(subject)
	if subject == "" {
		subject = FallbackSubject
	}

	return &domain.Reply{
		Subject: subject,
		Body:    strings.TrimSpace(body),
	}
}

// cleanSubject strips known prefix artifacts the model tends to emit: a
// leading "Subject:" label (case-insensitive) and quote or markdown wrappers.
func cleanSubject(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"*`)
	s = strings.TrimSpace(s)

	if len(s) >= len("subject:") && strings.EqualFold(s[:len("subject:")], "subject:") {
		s = strings.TrimSpace(s[len("subject:"):])
		s = strings.Trim(s, `"*`)
		s = strings.TrimSpace(s)
	}
	return s
}
