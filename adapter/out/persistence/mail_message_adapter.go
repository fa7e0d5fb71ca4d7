// Package persistence provides database adapters implementing outbound ports.
package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/chadBookW/email-final/core/domain"
	"github.com/chadBookW/email-final/core/port/out"
	"github.com/chadBookW/email-final/pkg/apperr"
)

// =============================================================================
// Message Adapter (PostgreSQL)
// =============================================================================

// MessageAdapter implements out.MessageRepository using PostgreSQL.
type MessageAdapter struct {
	db *sqlx.DB
}

// NewMessageAdapter creates a new MessageAdapter.
func NewMessageAdapter(db *sqlx.DB) *MessageAdapter {
	return &MessageAdapter{db: db}
}

// =============================================================================
// Database Row Mapping
// =============================================================================

// messageSelectColumns contains explicit column names for SELECT queries.
const messageSelectColumns = `
	m.id, m.subject, m.sender, m.message_date, m.body,
	m.sentiment_pos, m.sentiment_neg, m.sentiment_neu,
	m.keywords, m.category, m.created_at`

// messageRow represents the database row for stored messages. The
// sentiment/keywords/category columns are a write-back cache of the last
// computed enrichment; readers recompute and must not treat them as truth.
type messageRow struct {
	ID          string          `db:"id"`
	Subject     string          `db:"subject"`
	Sender      string          `db:"sender"`
	MessageDate time.Time       `db:"message_date"`
	Body        string          `db:"body"`
	SentPos     sql.NullFloat64 `db:"sentiment_pos"`
	SentNeg     sql.NullFloat64 `db:"sentiment_neg"`
	SentNeu     sql.NullFloat64 `db:"sentiment_neu"`
	Keywords    pq.StringArray  `db:"keywords"`
	Category    sql.NullString  `db:"category"`
	CreatedAt   time.Time       `db:"created_at"`
}

func (r *messageRow) toMessage() *domain.Message {
	return &domain.Message{
		ID:      r.ID,
		Subject: r.Subject,
		Sender:  r.Sender,
		Date:    r.MessageDate.UTC(),
		Body:    r.Body,
	}
}

// =============================================================================
// Schema
// =============================================================================

const schemaDDL = `
CREATE TABLE IF NOT EXISTS messages (
	id            TEXT PRIMARY KEY,
	subject       TEXT NOT NULL DEFAULT '',
	sender        TEXT NOT NULL DEFAULT '',
	message_date  TIMESTAMPTZ NOT NULL,
	body          TEXT NOT NULL DEFAULT '',
	sentiment_pos DOUBLE PRECISION,
	sentiment_neg DOUBLE PRECISION,
	sentiment_neu DOUBLE PRECISION,
	keywords      TEXT[],
	category      TEXT,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_messages_date ON messages (message_date DESC);

CREATE TABLE IF NOT EXISTS message_tombstones (
	id         TEXT PRIMARY KEY,
	deleted_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);`

// EnsureSchema creates the messages and tombstones tables if missing.
func (a *MessageAdapter) EnsureSchema(ctx context.Context) error {
	if _, err := a.db.ExecContext(ctx, schemaDDL); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// =============================================================================
// Write Operations
// =============================================================================

// Insert stores a message if no row with the same id exists. Re-inserting an
// existing id is a no-op.
func (a *MessageAdapter) Insert(ctx context.Context, msg *domain.Message) error {
	query := `
		INSERT INTO messages (id, subject, sender, message_date, body)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO NOTHING`

	if _, err := a.db.ExecContext(ctx, query,
		msg.ID, msg.Subject, msg.Sender, msg.Date, msg.Body,
	); err != nil {
		return apperr.DatabaseError("failed to insert message", err)
	}
	return nil
}

// DeleteWithTombstone removes the row and records a tombstone inside one
// transaction. A missing row returns NOT_FOUND and leaves no tombstone.
func (a *MessageAdapter) DeleteWithTombstone(ctx context.Context, id string) error {
	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperr.DatabaseError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, "DELETE FROM messages WHERE id = $1", id)
	if err != nil {
		return apperr.DatabaseError("failed to delete message", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return apperr.NotFound(fmt.Sprintf("message %s not found", id))
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO message_tombstones (id) VALUES ($1) ON CONFLICT (id) DO NOTHING", id,
	); err != nil {
		return apperr.DatabaseError("failed to record tombstone", err)
	}

	if err := tx.Commit(); err != nil {
		return apperr.DatabaseError("failed to commit delete", err)
	}
	return nil
}

// UpdateEnrichment writes computed enrichment back onto the row as a cache.
func (a *MessageAdapter) UpdateEnrichment(ctx context.Context, id string, enr *domain.Enrichment) error {
	query := `
		UPDATE messages SET
			sentiment_pos = $1, sentiment_neg = $2, sentiment_neu = $3,
			keywords = $4, category = $5
		WHERE id = $6`

	if _, err := a.db.ExecContext(ctx, query,
		enr.Sentiment.Positive, enr.Sentiment.Negative, enr.Sentiment.Neutral,
		pq.Array(enr.Keywords), string(enr.Category), id,
	); err != nil {
		return apperr.DatabaseError("failed to update enrichment", err)
	}
	return nil
}

// =============================================================================
// Read Operations
// =============================================================================

// Exists reports whether a message row with the given id is stored.
func (a *MessageAdapter) Exists(ctx context.Context, id string) (bool, error) {
	var exists bool
	err := a.db.QueryRowxContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM messages WHERE id = $1)", id,
	).Scan(&exists)
	if err != nil {
		return false, apperr.DatabaseError("failed to check message existence", err)
	}
	return exists, nil
}

// GetByID returns one stored message or NOT_FOUND.
func (a *MessageAdapter) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	query := fmt.Sprintf("SELECT %s FROM messages m WHERE m.id = $1", messageSelectColumns)

	var row messageRow
	if err := a.db.QueryRowxContext(ctx, query, id).StructScan(&row); err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.NotFound(fmt.Sprintf("message %s not found", id))
		}
		return nil, apperr.DatabaseError("failed to get message", err)
	}

	return row.toMessage(), nil
}

// ListAll returns every stored message, newest first.
func (a *MessageAdapter) ListAll(ctx context.Context) ([]*domain.Message, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM messages m
		ORDER BY m.message_date DESC`, messageSelectColumns)

	rows, err := a.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, apperr.DatabaseError("failed to list messages", err)
	}
	defer rows.Close()

	messages := make([]*domain.Message, 0)
	for rows.Next() {
		var row messageRow
		if err := rows.StructScan(&row); err != nil {
			return nil, apperr.DatabaseError("failed to scan message row", err)
		}
		messages = append(messages, row.toMessage())
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.DatabaseError("error iterating message rows", err)
	}

	return messages, nil
}

// TombstonedIDs returns the ids of every deleted message.
func (a *MessageAdapter) TombstonedIDs(ctx context.Context) ([]string, error) {
	rows, err := a.db.QueryxContext(ctx, "SELECT id FROM message_tombstones")
	if err != nil {
		return nil, apperr.DatabaseError("failed to list tombstones", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperr.DatabaseError("failed to scan tombstone row", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.DatabaseError("error iterating tombstone rows", err)
	}

	return ids, nil
}

// =============================================================================
// Interface Compliance
// =============================================================================

var _ out.MessageRepository = (*MessageAdapter)(nil)
