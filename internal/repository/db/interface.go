package db

import "time"

// Database defines the interface for all database operations
// This allows for easier testing through mocking and decouples the services
// from the specific database implementation
type Database interface {
	// Users
	CreateUser(email, name, passwordHash string) (*User, error)
	GetUserByEmail(email string) (*User, error)
	GetUserByID(id string) (*User, error)
	SetResetCode(email, code string, expires time.Time) error
	UpdatePassword(email, passwordHash string) error
	ClearResetCode(email string) error
	DeleteUser(email string) error

	// Conversations
	CreateConversation(userID string) (*Conversation, error)
	GetConversation(id string) (*Conversation, error)
	GetConversationSummaries(userID string) ([]ConversationSummary, error)
	DeleteConversation(id string) error

	// Messages
	AddMessage(conversationID, userID, sender, content string, createdAt time.Time) (*Message, error)
	GetConversationMessages(conversationID string) ([]Message, error)
	SetMessageEmotion(messageID string, emotion int) error

	// Mood
	GetMoodHistory(userID string) ([]MoodEntry, error)
}
