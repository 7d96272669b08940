package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"humdum-app/internal/logger"
	"humdum-app/internal/repository/db"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// CreateConversation creates a new, empty conversation for a user
func (p *PostgresDB) CreateConversation(userID string) (*db.Conversation, error) {
	convID := uuid.New().String()
	var createdAt time.Time

	query := `
	INSERT INTO conversations (id, user_id)
	VALUES ($1, $2)
	RETURNING id, created_at
	`

	err := p.conn.QueryRow(query, convID, userID).Scan(&convID, &createdAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return nil, db.ErrNotFound
		}
		return nil, fmt.Errorf("error creating conversation: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{"conversation_id": convID, "user_id": userID}).Info("Created new conversation")

	return &db.Conversation{
		ID:        convID,
		UserID:    userID,
		CreatedAt: createdAt,
	}, nil
}

// GetConversation retrieves a specific conversation
func (p *PostgresDB) GetConversation(id string) (*db.Conversation, error) {
	var conv db.Conversation
	query := `SELECT id, user_id, created_at FROM conversations WHERE id = $1`

	err := p.conn.QueryRow(query, id).Scan(&conv.ID, &conv.UserID, &conv.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, fmt.Errorf("error retrieving conversation: %w", err)
	}

	return &conv, nil
}

// GetConversationSummaries retrieves all conversations for a user, most
// recent first, each with its latest message and message count. Preview is
// returned untruncated; display-length policy belongs to the history service.
func (p *PostgresDB) GetConversationSummaries(userID string) ([]db.ConversationSummary, error) {
	query := `
	SELECT c.id,
	       c.created_at,
	       COALESCE((
	           SELECT m.content FROM messages m
	           WHERE m.conversation_id = c.id
	           ORDER BY m.created_at DESC, m.id DESC
	           LIMIT 1
	       ), ''),
	       (SELECT COUNT(*) FROM messages m WHERE m.conversation_id = c.id)
	FROM conversations c
	WHERE c.user_id = $1
	ORDER BY c.created_at DESC
	`

	rows, err := p.conn.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying conversations: %w", err)
	}
	defer rows.Close()

	var summaries []db.ConversationSummary
	for rows.Next() {
		var s db.ConversationSummary
		if err := rows.Scan(&s.ID, &s.CreatedAt, &s.Preview, &s.MessageCount); err != nil {
			return nil, fmt.Errorf("error scanning conversation summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating conversations: %w", err)
	}

	return summaries, nil
}

// DeleteConversation deletes all messages and then the conversation itself
// inside a single transaction, so a failure on either step leaves both intact
func (p *PostgresDB) DeleteConversation(id string) error {
	tx, err := p.conn.Begin()
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM messages WHERE conversation_id = $1`, id); err != nil {
		return fmt.Errorf("error deleting messages: %w", err)
	}

	result, err := tx.Exec(`DELETE FROM conversations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting conversation: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return db.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing delete: %w", err)
	}

	logger.Log.WithField("conversation_id", id).Info("Deleted conversation")
	return nil
}
