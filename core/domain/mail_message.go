// Package domain holds the core entities of the mail pipeline.
package domain

import "time"

// Placeholder values used when a provider message is missing headers.
const (
	DefaultSubject = "No Subject"
	DefaultSender  = "Unknown Sender"
)

// Category is the fixed enrichment vocabulary.
type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryUnknown  Category = "unknown"
)

// Message is a normalized, persisted mail record. The id is provider-assigned
// and unique across the store; once inserted, a Message is immutable except
// for cached enrichment fields.
type Message struct {
	ID      string    `json:"id"`
	Subject string    `json:"subject"`
	Sender  string    `json:"sender"`
	Date    time.Time `json:"date"`
	Body    string    `json:"body"`
}

// Tombstone records that a message id was deliberately deleted. Its presence
// permanently excludes the id from future ingestion, even if the provider
// still lists it.
type Tombstone struct {
	ID        string    `json:"id"`
	DeletedAt time.Time `json:"deleted_at"`
}

// Sentiment holds polarity scores in [0, 1]. JSON keys use the pos/neg/neu
// wire shape the frontend consumes.
type Sentiment struct {
	Positive float64 `json:"pos"`
	Negative float64 `json:"neg"`
	Neutral  float64 `json:"neu"`
}

// Enrichment is derived, non-authoritative metadata computed from a message
// body. Recomputed on read; any persisted copy is a cache.
type Enrichment struct {
	Sentiment Sentiment `json:"sentiment"`
	Keywords  []string  `json:"keywords"`
	Category  Category  `json:"category,omitempty"`
}

// EnrichedMessage is the read-path view: a stored Message annotated with its
// current Enrichment.
type EnrichedMessage struct {
	Message
	Sentiment Sentiment `json:"sentiment"`
	Keywords  []string  `json:"keywords"`
	Category  Category  `json:"category,omitempty"`
}

// Annotate combines a message with its enrichment.
func Annotate(msg *Message, enr *Enrichment) *EnrichedMessage {
	em := &EnrichedMessage{Message: *msg}
	if enr != nil {
		em.Sentiment = enr.Sentiment
		em.Keywords = enr.Keywords
		em.Category = enr.Category
	}
	if em.Keywords == nil {
		em.Keywords = []string{}
	}
	return em
}

// Reply is a generated subject/body pair for an auto-reply.
type Reply struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
