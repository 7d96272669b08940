package history

import (
	"fmt"
	"time"

	"humdum-app/internal/repository/db"
)

// Display policy for conversation previews
const (
	previewLength = 50
	emptyPreview  = "No messages yet"
)

// ConversationSummary is the list-view shape returned to the client
type ConversationSummary struct {
	ID           string
	Preview      string
	MessageCount int
	CreatedAt    time.Time
}

// HistoryService builds read views over stored conversations without
// mutating them
type HistoryService struct {
	db db.Database
}

// NewHistoryService creates a new HistoryService
func NewHistoryService(database db.Database) *HistoryService {
	return &HistoryService{
		db: database,
	}
}

// ListConversations returns the user's conversations, most recent first,
// each with a truncated preview of its latest message
func (s *HistoryService) ListConversations(userID string) ([]ConversationSummary, error) {
	summaries, err := s.db.GetConversationSummaries(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve conversations: %w", err)
	}

	result := make([]ConversationSummary, 0, len(summaries))
	for _, cs := range summaries {
		result = append(result, ConversationSummary{
			ID:           cs.ID,
			Preview:      truncatePreview(cs.Preview),
			MessageCount: cs.MessageCount,
			CreatedAt:    cs.CreatedAt,
		})
	}

	return result, nil
}

// GetTranscript returns the ordered messages of a conversation the user
// owns. A conversation with no messages yields an empty slice, not an error.
func (s *HistoryService) GetTranscript(conversationID, userID string) ([]db.Message, error) {
	conversation, err := s.db.GetConversation(conversationID)
	if err != nil {
		return nil, fmt.Errorf("conversation lookup failed: %w", err)
	}

	if conversation.UserID != userID {
		return nil, db.ErrNotFound
	}

	messages, err := s.db.GetConversationMessages(conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve messages: %w", err)
	}

	return messages, nil
}

// GetMoodHistory returns the user's classified messages as {emotion, date}
// pairs, oldest first
func (s *HistoryService) GetMoodHistory(userID string) ([]db.MoodEntry, error) {
	entries, err := s.db.GetMoodHistory(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve mood history: %w", err)
	}
	return entries, nil
}

// truncatePreview applies the display-length policy. Rune slicing keeps
// multi-byte characters intact.
func truncatePreview(content string) string {
	if content == "" {
		return emptyPreview
	}
	runes := []rune(content)
	if len(runes) > previewLength {
		return string(runes[:previewLength]) + "…"
	}
	return content
}
