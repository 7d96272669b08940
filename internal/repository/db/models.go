package db

import "time"

// Sender roles for messages. The set is closed: every message is either
// written by the user or by the assistant.
const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// Emotion codes assigned by the external classifier. EmotionUnclassified is
// the sentinel a message carries until (and unless) classification succeeds.
const (
	EmotionUnclassified = -1
	EmotionNeutral      = 0
	EmotionAngry        = 1
	EmotionFrustrated   = 2
	EmotionDissatisfied = 3
	EmotionHappy        = 4
)

var emotionNames = map[int]string{
	EmotionNeutral:      "neutral",
	EmotionAngry:        "angry",
	EmotionFrustrated:   "frustrated",
	EmotionDissatisfied: "dissatisfied",
	EmotionHappy:        "happy",
}

// EmotionName returns the display label for an emotion code, or empty for
// the sentinel and unknown codes.
func EmotionName(code int) string {
	return emotionNames[code]
}

// ValidEmotion reports whether code is one of the classifier's known classes.
func ValidEmotion(code int) bool {
	_, ok := emotionNames[code]
	return ok
}

// User represents a user in the database
type User struct {
	ID               string
	Email            string
	Name             string
	PasswordHash     string
	ResetCode        *string
	ResetCodeExpires *time.Time
	CreatedAt        time.Time
}

// Conversation represents a conversation in the database
type Conversation struct {
	ID        string
	UserID    string
	CreatedAt time.Time
}

// Message represents one turn in a conversation
type Message struct {
	ID             string
	ConversationID string
	UserID         string
	Sender         string
	Content        string
	Emotion        int
	CreatedAt      time.Time
}

// ConversationSummary is the list-view projection of a conversation:
// its latest message as a preview plus a message count.
type ConversationSummary struct {
	ID           string
	Preview      string
	MessageCount int
	CreatedAt    time.Time
}

// MoodEntry is one point in a user's mood history: the classified emotion
// of a user-sent message and when it was written.
type MoodEntry struct {
	Emotion int
	Date    time.Time
}
