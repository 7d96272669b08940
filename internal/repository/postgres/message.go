package postgres

import (
	"errors"
	"fmt"
	"time"

	"humdum-app/internal/logger"
	"humdum-app/internal/repository/db"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// AddMessage appends one turn to a conversation. The emotion column starts
// at the unclassified sentinel via its schema default.
func (p *PostgresDB) AddMessage(conversationID, userID, sender, content string, createdAt time.Time) (*db.Message, error) {
	msgID := uuid.New().String()

	query := `
	INSERT INTO messages (id, conversation_id, user_id, sender, content, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING id
	`

	err := p.conn.QueryRow(query, msgID, conversationID, userID, sender, content, createdAt).Scan(&msgID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return nil, db.ErrNotFound
		}
		return nil, fmt.Errorf("error adding message: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"message_id":      msgID,
		"conversation_id": conversationID,
		"sender":          sender,
	}).Debug("Added message")

	return &db.Message{
		ID:             msgID,
		ConversationID: conversationID,
		UserID:         userID,
		Sender:         sender,
		Content:        content,
		Emotion:        db.EmotionUnclassified,
		CreatedAt:      createdAt,
	}, nil
}

// GetConversationMessages retrieves the full transcript of a conversation in
// chronological order. Ties on created_at are broken by id ascending so the
// order is stable.
func (p *PostgresDB) GetConversationMessages(conversationID string) ([]db.Message, error) {
	query := `
	SELECT id, conversation_id, user_id, sender, content, emotion, created_at
	FROM messages
	WHERE conversation_id = $1
	ORDER BY created_at ASC, id ASC
	`

	rows, err := p.conn.Query(query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("error querying messages: %w", err)
	}
	defer rows.Close()

	var messages []db.Message
	for rows.Next() {
		var msg db.Message
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.UserID, &msg.Sender, &msg.Content, &msg.Emotion, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}

	return messages, nil
}

// SetMessageEmotion records the classifier's emotion code for a message.
// The guard restricts the update to user-sent messages still at the
// sentinel, so the transition happens at most once and never for bot turns.
func (p *PostgresDB) SetMessageEmotion(messageID string, emotion int) error {
	if !db.ValidEmotion(emotion) {
		return db.ErrInvalidArgument
	}

	query := `
	UPDATE messages
	SET emotion = $1
	WHERE id = $2 AND sender = 'user' AND emotion = -1
	`

	result, err := p.conn.Exec(query, emotion, messageID)
	if err != nil {
		return fmt.Errorf("error setting emotion: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return db.ErrNotFound
	}

	logger.Log.WithFields(logrus.Fields{"message_id": messageID, "emotion": emotion}).Debug("Classified message")
	return nil
}

// GetMoodHistory projects a user's classified messages into mood entries,
// oldest first. Unclassified messages and bot turns never appear.
func (p *PostgresDB) GetMoodHistory(userID string) ([]db.MoodEntry, error) {
	query := `
	SELECT emotion, created_at
	FROM messages
	WHERE user_id = $1 AND sender = 'user' AND emotion <> -1
	ORDER BY created_at ASC, id ASC
	`

	rows, err := p.conn.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying mood history: %w", err)
	}
	defer rows.Close()

	var entries []db.MoodEntry
	for rows.Next() {
		var e db.MoodEntry
		if err := rows.Scan(&e.Emotion, &e.Date); err != nil {
			return nil, fmt.Errorf("error scanning mood entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating mood history: %w", err)
	}

	return entries, nil
}
