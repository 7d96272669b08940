package validation

import (
	"errors"
	"fmt"
	"time"
)

// ChatRequestValidator validates chat-related requests
type ChatRequestValidator struct{}

// NewChatRequestValidator creates a new ChatRequestValidator
func NewChatRequestValidator() *ChatRequestValidator {
	return &ChatRequestValidator{}
}

// ValidateMessage validates message text
func (v *ChatRequestValidator) ValidateMessage(text string) error {
	if text == "" {
		return errors.New("text cannot be empty")
	}
	return nil
}

// ValidateSender validates the sender role
func (v *ChatRequestValidator) ValidateSender(sender string) error {
	if sender != "user" && sender != "bot" {
		return fmt.Errorf("sender must be one of: user, bot; got %q", sender)
	}
	return nil
}

// ValidateTimestamp validates a message timestamp
func (v *ChatRequestValidator) ValidateTimestamp(timestamp time.Time) error {
	if timestamp.IsZero() {
		return errors.New("timestamp is required")
	}
	return nil
}

// ValidateConversationID validates a conversation identifier
func (v *ChatRequestValidator) ValidateConversationID(id string) error {
	if id == "" {
		return errors.New("conversation_id cannot be empty")
	}
	return nil
}

// ValidateSaveMessageRequest validates a complete save-message request
func (v *ChatRequestValidator) ValidateSaveMessageRequest(conversationID, sender, text string, timestamp time.Time) error {
	if err := v.ValidateConversationID(conversationID); err != nil {
		return err
	}

	if err := v.ValidateSender(sender); err != nil {
		return err
	}

	if err := v.ValidateMessage(text); err != nil {
		return err
	}

	if err := v.ValidateTimestamp(timestamp); err != nil {
		return err
	}

	return nil
}
