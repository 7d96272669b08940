package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"humdum-app/internal/app"
	"humdum-app/internal/auth"
	"humdum-app/internal/logger"
	"humdum-app/internal/repository/db"
	chatService "humdum-app/internal/service/chat"
	historyService "humdum-app/internal/service/history"
	"humdum-app/internal/service/llm"
	"humdum-app/pkg/validation"

	"github.com/sirupsen/logrus"
)

// Request/Response types

type NewConversationResponse struct {
	ConversationID string `json:"conversation_id"`
}

type SaveMessageRequest struct {
	ConversationID string `json:"conversation_id"`
	Sender         string `json:"sender"`
	Text           string `json:"text"`
	Timestamp      string `json:"timestamp"`
}

type SaveMessageResponse struct {
	MessageID string `json:"message_id"`
	Message   string `json:"message"`
}

type BotReplyRequest struct {
	Message string `json:"message"`
}

type BotReplyResponse struct {
	Response string `json:"response"`
}

type ConversationInfo struct {
	ID           string `json:"id"`
	Preview      string `json:"preview"`
	MessageCount int    `json:"message_count"`
	CreatedAt    string `json:"created_at"`
}

type ConversationsResponse struct {
	Conversations []ConversationInfo `json:"conversations"`
}

type MessageData struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"`
	Text      string `json:"text"`
	Emotion   int    `json:"emotion"`
	CreatedAt string `json:"created_at"`
}

type MessagesResponse struct {
	Messages []MessageData `json:"messages"`
}

type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type MoodEntryData struct {
	Emotion int    `json:"emotion"`
	Label   string `json:"label"`
	Date    string `json:"date"`
}

type MoodHistoryResponse struct {
	Entries []MoodEntryData `json:"entries"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ChatHandlers is the HTTP boundary over the chat and history services
type ChatHandlers struct {
	config         *app.Config
	validator      *validation.ChatRequestValidator
	chatService    *chatService.ChatService
	historyService *historyService.HistoryService
}

// NewChatHandlers creates a new ChatHandlers with the service layer
func NewChatHandlers(config *app.Config) *ChatHandlers {
	return &ChatHandlers{
		config:         config,
		validator:      validation.NewChatRequestValidator(),
		chatService:    chatService.NewChatService(config.DB, config.LLM, config.Classifier),
		historyService: historyService.NewHistoryService(config.DB),
	}
}

// sendError sends a standardized JSON error response. Internal detail is
// logged, never echoed back on 5xx.
func (ch *ChatHandlers) sendError(w http.ResponseWriter, status int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errResp := ErrorResponse{
		Code:    status,
		Message: message,
	}
	if err != nil && status < http.StatusInternalServerError {
		errResp.Error = err.Error()
	}
	json.NewEncoder(w).Encode(errResp)
}

func (ch *ChatHandlers) sendJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// NewConversationHandler starts a fresh, empty conversation for the user
func (ch *ChatHandlers) NewConversationHandler(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserID(r)

	conversationID, err := ch.chatService.StartConversation(userID)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			ch.sendError(w, http.StatusNotFound, "User not found", nil)
			return
		}
		logger.Log.WithField("error", err).Error("Failed to create conversation")
		ch.sendError(w, http.StatusInternalServerError, "Error creating conversation", err)
		return
	}

	ch.sendJSON(w, http.StatusOK, NewConversationResponse{ConversationID: conversationID})
}

// SaveMessageHandler durably stores one turn. The response is sent once the
// message is saved; emotion classification for user turns continues in the
// background.
func (ch *ChatHandlers) SaveMessageHandler(w http.ResponseWriter, r *http.Request) {
	var req SaveMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ch.sendError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	timestamp, err := time.Parse(time.RFC3339, req.Timestamp)
	if err != nil {
		ch.sendError(w, http.StatusBadRequest, "timestamp must be RFC3339", err)
		return
	}

	if err := ch.validator.ValidateSaveMessageRequest(req.ConversationID, req.Sender, req.Text, timestamp); err != nil {
		ch.sendError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	messageID, err := ch.chatService.SaveMessage(chatService.SaveMessageRequest{
		ConversationID: req.ConversationID,
		Sender:         req.Sender,
		Text:           req.Text,
		Timestamp:      timestamp,
		UserID:         auth.UserID(r),
	})
	if err != nil {
		switch {
		case errors.Is(err, db.ErrInvalidArgument):
			ch.sendError(w, http.StatusBadRequest, err.Error(), nil)
		case errors.Is(err, db.ErrNotFound):
			ch.sendError(w, http.StatusNotFound, "Conversation not found", nil)
		default:
			logger.Log.WithField("error", err).Error("Failed to save message")
			ch.sendError(w, http.StatusInternalServerError, "Error saving message", err)
		}
		return
	}

	ch.sendJSON(w, http.StatusCreated, SaveMessageResponse{
		MessageID: messageID,
		Message:   "Message saved successfully",
	})
}

// BotReplyHandler obtains the assistant's reply for a prompt. When the
// inference service is down or times out the user still gets a reply: the
// configured fallback text, never a raw error and never an empty string.
func (ch *ChatHandlers) BotReplyHandler(w http.ResponseWriter, r *http.Request) {
	var req BotReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ch.sendError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := ch.validator.ValidateMessage(req.Message); err != nil {
		ch.sendError(w, http.StatusBadRequest, "Message is required", nil)
		return
	}

	reply, err := ch.chatService.BotReply(r.Context(), req.Message)
	if err != nil {
		if errors.Is(err, llm.ErrUnavailable) {
			logger.Log.WithField("error", err).Warn("Inference unavailable, returning fallback reply")
			ch.sendJSON(w, http.StatusOK, BotReplyResponse{Response: ch.config.AppConfig.LLM.FallbackReply})
			return
		}
		logger.Log.WithField("error", err).Error("Failed to get bot reply")
		ch.sendError(w, http.StatusInternalServerError, "Error getting bot reply", err)
		return
	}

	ch.sendJSON(w, http.StatusOK, BotReplyResponse{Response: reply})
}

// GetConversationsHandler lists the user's conversations, most recent first
func (ch *ChatHandlers) GetConversationsHandler(w http.ResponseWriter, r *http.Request) {
	summaries, err := ch.historyService.ListConversations(auth.UserID(r))
	if err != nil {
		logger.Log.WithField("error", err).Error("Failed to list conversations")
		ch.sendError(w, http.StatusInternalServerError, "Error retrieving conversations", err)
		return
	}

	conversations := make([]ConversationInfo, 0, len(summaries))
	for _, s := range summaries {
		conversations = append(conversations, ConversationInfo{
			ID:           s.ID,
			Preview:      s.Preview,
			MessageCount: s.MessageCount,
			CreatedAt:    s.CreatedAt.Format(time.RFC3339),
		})
	}

	ch.sendJSON(w, http.StatusOK, ConversationsResponse{Conversations: conversations})
}

// GetConversationMessagesHandler returns a conversation's transcript in
// chronological order
func (ch *ChatHandlers) GetConversationMessagesHandler(w http.ResponseWriter, r *http.Request) {
	conversationID := r.PathValue("id")

	messages, err := ch.historyService.GetTranscript(conversationID, auth.UserID(r))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			ch.sendError(w, http.StatusNotFound, "Conversation not found", nil)
			return
		}
		logger.Log.WithField("error", err).Error("Failed to load transcript")
		ch.sendError(w, http.StatusInternalServerError, "Error retrieving messages", err)
		return
	}

	data := make([]MessageData, 0, len(messages))
	for _, msg := range messages {
		data = append(data, MessageData{
			ID:        msg.ID,
			Sender:    msg.Sender,
			Text:      msg.Content,
			Emotion:   msg.Emotion,
			CreatedAt: msg.CreatedAt.Format(time.RFC3339),
		})
	}

	ch.sendJSON(w, http.StatusOK, MessagesResponse{Messages: data})
}

// DeleteConversationHandler removes a conversation and its messages.
// A repeat delete gets 404, which clients may treat as already done.
func (ch *ChatHandlers) DeleteConversationHandler(w http.ResponseWriter, r *http.Request) {
	conversationID := r.PathValue("id")
	userID := auth.UserID(r)

	if err := ch.chatService.DeleteConversation(conversationID, userID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			ch.sendError(w, http.StatusNotFound, "Conversation not found", nil)
			return
		}
		logger.Log.WithField("error", err).Error("Failed to delete conversation")
		ch.sendError(w, http.StatusInternalServerError, "Error deleting conversation", err)
		return
	}

	logger.Log.WithFields(logrus.Fields{"conversation_id": conversationID, "user_id": userID}).Info("Conversation deleted")
	ch.sendJSON(w, http.StatusOK, DeleteResponse{
		Success: true,
		Message: "Conversation deleted successfully",
	})
}

// GetMoodHistoryHandler returns the user's classified messages as
// {emotion, date} pairs, oldest first
func (ch *ChatHandlers) GetMoodHistoryHandler(w http.ResponseWriter, r *http.Request) {
	entries, err := ch.historyService.GetMoodHistory(auth.UserID(r))
	if err != nil {
		logger.Log.WithField("error", err).Error("Failed to load mood history")
		ch.sendError(w, http.StatusInternalServerError, "Error retrieving mood history", err)
		return
	}

	data := make([]MoodEntryData, 0, len(entries))
	for _, e := range entries {
		data = append(data, MoodEntryData{
			Emotion: e.Emotion,
			Label:   db.EmotionName(e.Emotion),
			Date:    e.Date.Format(time.RFC3339),
		})
	}

	ch.sendJSON(w, http.StatusOK, MoodHistoryResponse{Entries: data})
}
