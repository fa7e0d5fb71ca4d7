// Package out defines outbound ports implemented by adapters.
package out

import "context"

// MessagePage is one page of a mailbox listing. NextPageToken is an opaque
// cursor; empty means no further pages.
type MessagePage struct {
	IDs           []string
	NextPageToken string
}

// RawPart is one typed part of a multipart payload. BodyData is URL-safe
// base64 as delivered by the provider; decoding is the parser's job.
type RawPart struct {
	MimeType string
	BodyData string
}

// RawMessage is a provider message payload before normalization. Headers are
// keyed exactly as the provider supplied them.
type RawMessage struct {
	ID       string
	Headers  map[string]string
	BodyData string
	Parts    []RawPart
}

// SendRequest describes an outgoing message.
type SendRequest struct {
	Recipient string
	Subject   string
	Body      string
}

// Mailbox is the remote mail provider capability consumed by the ingestion
// pipeline. One page is in flight at a time; the pipeline owns the cursor
// loop and makes no ordering assumptions about pages.
type Mailbox interface {
	// ListMessages returns a page of message ids starting at pageToken
	// (empty for the first page).
	ListMessages(ctx context.Context, pageToken string) (*MessagePage, error)

	// GetMessage fetches the full raw payload for a listed id.
	GetMessage(ctx context.Context, id string) (*RawMessage, error)

	// SendMessage submits an outgoing message.
	SendMessage(ctx context.Context, req *SendRequest) error
}
