package testutil

import (
	"errors"
	"time"

	"humdum-app/internal/repository/db"
)

// MockDatabase is a mock implementation of db.Database for testing
type MockDatabase struct {
	// User mocks
	CreateUserFunc     func(email, name, passwordHash string) (*db.User, error)
	GetUserByEmailFunc func(email string) (*db.User, error)
	GetUserByIDFunc    func(id string) (*db.User, error)
	SetResetCodeFunc   func(email, code string, expires time.Time) error
	UpdatePasswordFunc func(email, passwordHash string) error
	ClearResetCodeFunc func(email string) error
	DeleteUserFunc     func(email string) error

	// Conversation mocks
	CreateConversationFunc       func(userID string) (*db.Conversation, error)
	GetConversationFunc          func(id string) (*db.Conversation, error)
	GetConversationSummariesFunc func(userID string) ([]db.ConversationSummary, error)
	DeleteConversationFunc       func(id string) error

	// Message mocks
	AddMessageFunc              func(conversationID, userID, sender, content string, createdAt time.Time) (*db.Message, error)
	GetConversationMessagesFunc func(conversationID string) ([]db.Message, error)
	SetMessageEmotionFunc       func(messageID string, emotion int) error

	// Mood mocks
	GetMoodHistoryFunc func(userID string) ([]db.MoodEntry, error)
}

var _ db.Database = (*MockDatabase)(nil)

// User methods

func (m *MockDatabase) CreateUser(email, name, passwordHash string) (*db.User, error) {
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(email, name, passwordHash)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) GetUserByEmail(email string) (*db.User, error) {
	if m.GetUserByEmailFunc != nil {
		return m.GetUserByEmailFunc(email)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) GetUserByID(id string) (*db.User, error) {
	if m.GetUserByIDFunc != nil {
		return m.GetUserByIDFunc(id)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) SetResetCode(email, code string, expires time.Time) error {
	if m.SetResetCodeFunc != nil {
		return m.SetResetCodeFunc(email, code, expires)
	}
	return errors.New("not implemented")
}

func (m *MockDatabase) UpdatePassword(email, passwordHash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(email, passwordHash)
	}
	return errors.New("not implemented")
}

func (m *MockDatabase) ClearResetCode(email string) error {
	if m.ClearResetCodeFunc != nil {
		return m.ClearResetCodeFunc(email)
	}
	return errors.New("not implemented")
}

func (m *MockDatabase) DeleteUser(email string) error {
	if m.DeleteUserFunc != nil {
		return m.DeleteUserFunc(email)
	}
	return errors.New("not implemented")
}

// Conversation methods

func (m *MockDatabase) CreateConversation(userID string) (*db.Conversation, error) {
	if m.CreateConversationFunc != nil {
		return m.CreateConversationFunc(userID)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) GetConversation(id string) (*db.Conversation, error) {
	if m.GetConversationFunc != nil {
		return m.GetConversationFunc(id)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) GetConversationSummaries(userID string) ([]db.ConversationSummary, error) {
	if m.GetConversationSummariesFunc != nil {
		return m.GetConversationSummariesFunc(userID)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) DeleteConversation(id string) error {
	if m.DeleteConversationFunc != nil {
		return m.DeleteConversationFunc(id)
	}
	return errors.New("not implemented")
}

// Message methods

func (m *MockDatabase) AddMessage(conversationID, userID, sender, content string, createdAt time.Time) (*db.Message, error) {
	if m.AddMessageFunc != nil {
		return m.AddMessageFunc(conversationID, userID, sender, content, createdAt)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) GetConversationMessages(conversationID string) ([]db.Message, error) {
	if m.GetConversationMessagesFunc != nil {
		return m.GetConversationMessagesFunc(conversationID)
	}
	return nil, errors.New("not implemented")
}

func (m *MockDatabase) SetMessageEmotion(messageID string, emotion int) error {
	if m.SetMessageEmotionFunc != nil {
		return m.SetMessageEmotionFunc(messageID, emotion)
	}
	return errors.New("not implemented")
}

// Mood methods

func (m *MockDatabase) GetMoodHistory(userID string) ([]db.MoodEntry, error) {
	if m.GetMoodHistoryFunc != nil {
		return m.GetMoodHistoryFunc(userID)
	}
	return nil, errors.New("not implemented")
}
