package chat

import (
	"context"
	"fmt"
	"time"

	"humdum-app/internal/logger"
	"humdum-app/internal/repository/db"
	"humdum-app/internal/service/llm"

	"github.com/sirupsen/logrus"
)

// Classifier dispatches emotion classification for a stored message without
// blocking the caller
type Classifier interface {
	ClassifyAsync(messageID, text string)
}

// SaveMessageRequest contains all the parameters needed to persist one turn
type SaveMessageRequest struct {
	ConversationID string
	Sender         string
	Text           string
	Timestamp      time.Time
	UserID         string // Extracted from auth context
}

// ChatService handles the business logic for chat operations
type ChatService struct {
	db         db.Database
	llm        llm.Provider
	classifier Classifier
}

// NewChatService creates a new ChatService
func NewChatService(database db.Database, provider llm.Provider, cls Classifier) *ChatService {
	return &ChatService{
		db:         database,
		llm:        provider,
		classifier: cls,
	}
}

// StartConversation creates a new, empty conversation for the user and
// returns its identifier. Every call creates a fresh conversation; messages
// never create conversations implicitly.
func (s *ChatService) StartConversation(userID string) (string, error) {
	conv, err := s.db.CreateConversation(userID)
	if err != nil {
		return "", fmt.Errorf("failed to create conversation: %w", err)
	}
	return conv.ID, nil
}

// SaveMessage durably stores one turn and, for user-sent messages, kicks off
// emotion classification after the row is committed. The caller gets the
// message ID as soon as the save succeeds; classification runs detached.
func (s *ChatService) SaveMessage(req SaveMessageRequest) (string, error) {
	if req.Text == "" {
		return "", fmt.Errorf("%w: text is required", db.ErrInvalidArgument)
	}
	if req.Sender != db.SenderUser && req.Sender != db.SenderBot {
		return "", fmt.Errorf("%w: sender must be %q or %q", db.ErrInvalidArgument, db.SenderUser, db.SenderBot)
	}
	if req.Timestamp.IsZero() {
		return "", fmt.Errorf("%w: timestamp is required", db.ErrInvalidArgument)
	}

	conversation, err := s.db.GetConversation(req.ConversationID)
	if err != nil {
		return "", fmt.Errorf("conversation lookup failed: %w", err)
	}

	// A conversation owned by someone else is indistinguishable from a
	// missing one as far as this user is concerned
	if conversation.UserID != req.UserID {
		return "", db.ErrNotFound
	}

	message, err := s.db.AddMessage(conversation.ID, conversation.UserID, req.Sender, req.Text, req.Timestamp)
	if err != nil {
		return "", fmt.Errorf("failed to save message: %w", err)
	}

	// Bot turns are never classified
	if req.Sender == db.SenderUser {
		s.classifier.ClassifyAsync(message.ID, req.Text)
	}

	logger.Log.WithFields(logrus.Fields{
		"conversation_id": conversation.ID,
		"message_id":      message.ID,
		"sender":          req.Sender,
	}).Debug("Saved message")

	return message.ID, nil
}

// BotReply obtains the assistant's reply for the latest user utterance.
// Nothing is persisted here; the client saves both turns explicitly.
func (s *ChatService) BotReply(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("%w: message is required", db.ErrInvalidArgument)
	}
	return s.llm.Reply(ctx, prompt)
}

// DeleteConversation removes a conversation and all its messages if the
// user owns it. Deleting a conversation that does not exist reports
// db.ErrNotFound, which callers may treat as a benign, idempotent outcome.
func (s *ChatService) DeleteConversation(conversationID, userID string) error {
	conversation, err := s.db.GetConversation(conversationID)
	if err != nil {
		return fmt.Errorf("conversation lookup failed: %w", err)
	}

	if conversation.UserID != userID {
		return db.ErrNotFound
	}

	if err := s.db.DeleteConversation(conversationID); err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}

	return nil
}
