// Package gmail provides the Gmail API mailbox adapter.
package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/chadBookW/email-final/core/port/out"
	"github.com/chadBookW/email-final/pkg/logger"
)

const defaultPageSize = 10

// Adapter implements out.Mailbox for Gmail. Every API call goes through a
// circuit breaker so a flapping provider fails fast instead of stalling
// requests.
type Adapter struct {
	service  *gmail.Service
	email    string
	pageSize int64
	cb       *gobreaker.CircuitBreaker
}

// NewAdapter creates a Gmail adapter from an injected authenticated token.
// Token refresh flows through the oauth2 client transport.
func NewAdapter(ctx context.Context, token *oauth2.Token, config *oauth2.Config, pageSize int) (*Adapter, error) {
	client := config.Client(ctx, token)
	service, err := gmail.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}

	profile, err := service.Users.GetProfile("me").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}

	size := int64(pageSize)
	if size <= 0 {
		size = defaultPageSize
	}

	cbSettings := gobreaker.Settings{
		Name:        "gmail-api",
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.ConsecutiveFailures > 5 ||
				(counts.Requests >= 10 && failureRatio >= 0.6)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker %s: state changed from %s to %s", name, from.String(), to.String())
		},
	}

	return &Adapter{
		service:  service,
		email:    profile.EmailAddress,
		pageSize: size,
		cb:       gobreaker.NewCircuitBreaker(cbSettings),
	}, nil
}

// Email returns the authenticated account address.
func (a *Adapter) Email() string {
	return a.email
}

// ListMessages returns one page of message ids starting at pageToken.
func (a *Adapter) ListMessages(ctx context.Context, pageToken string) (*out.MessagePage, error) {
	result, err := a.cb.Execute(func() (interface{}, error) {
		req := a.service.Users.Messages.List("me").MaxResults(a.pageSize)
		if pageToken != "" {
			req = req.PageToken(pageToken)
		}
		return req.Context(ctx).Do()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	resp := result.(*gmail.ListMessagesResponse)
	ids := make([]string, 0, len(resp.Messages))
	for _, m := range resp.Messages {
		ids = append(ids, m.Id)
	}

	return &out.MessagePage{
		IDs:           ids,
		NextPageToken: resp.NextPageToken,
	}, nil
}

// GetMessage fetches the full payload for a message id.
func (a *Adapter) GetMessage(ctx context.Context, id string) (*out.RawMessage, error) {
	result, err := a.cb.Execute(func() (interface{}, error) {
		return a.service.Users.Messages.Get("me", id).
			Format("full").
			Context(ctx).
			Do()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", id, err)
	}

	return toRawMessage(result.(*gmail.Message)), nil
}

// SendMessage composes a minimal RFC-822 message and submits it.
func (a *Adapter) SendMessage(ctx context.Context, req *out.SendRequest) error {
	raw := buildRawMessage(a.email, req)

	_, err := a.cb.Execute(func() (interface{}, error) {
		return a.service.Users.Messages.Send("me", &gmail.Message{
			Raw: base64.URLEncoding.EncodeToString([]byte(raw)),
		}).Context(ctx).Do()
	})
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// toRawMessage flattens a Gmail message into the provider-neutral payload
// shape. Header names are kept exactly as supplied; base64 body data is
// passed through undecoded.
func toRawMessage(msg *gmail.Message) *out.RawMessage {
	raw := &out.RawMessage{
		ID:      msg.Id,
		Headers: make(map[string]string),
	}

	if msg.Payload == nil {
		return raw
	}

	for _, header := range msg.Payload.Headers {
		raw.Headers[header.Name] = header.Value
	}

	if msg.Payload.Body != nil {
		raw.BodyData = msg.Payload.Body.Data
	}

	for _, part := range msg.Payload.Parts {
		p := out.RawPart{MimeType: part.MimeType}
		if part.Body != nil {
			p.BodyData = part.Body.Data
		}
		raw.Parts = append(raw.Parts, p)
	}

	return raw
}

func buildRawMessage(from string, req *out.SendRequest) string {
	var sb strings.Builder

	if from != "" {
		sb.WriteString("From: " + from + "\r\n")
	}
	sb.WriteString("To: " + req.Recipient + "\r\n")
	sb.WriteString("Subject: " + req.Subject + "\r\n")
	sb.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(req.Body)

	return sb.String()
}

// Ensure Adapter implements out.Mailbox
var _ out.Mailbox = (*Adapter)(nil)
