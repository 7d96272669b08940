package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"humdum-app/internal/config"
	"humdum-app/internal/logger"
	"humdum-app/internal/repository/db"

	"github.com/sirupsen/logrus"
)

// Client sends user message text to the external emotion classification
// service and records the result. Classification is best-effort: the chat
// path never waits on it and a failure leaves the message unclassified.
type Client struct {
	url        string
	timeout    time.Duration
	httpClient *http.Client
	db         db.Database
	wg         sync.WaitGroup
}

// NewClient creates a classification client with config
func NewClient(cfg *config.ClassifierConfig, database db.Database) *Client {
	return &Client{
		url:        cfg.URL,
		timeout:    cfg.Timeout,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		db:         database,
	}
}

type classifyRequest struct {
	Text string `json:"text"`
}

type classifyResponse struct {
	PredictedClass int `json:"predicted_class"`
}

// ClassifyAsync dispatches classification of a stored message on a detached
// goroutine and returns immediately. Completions for different messages are
// unordered; each one targets its own row by identifier.
func (c *Client) ClassifyAsync(messageID, text string) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
		defer cancel()

		code, err := c.Classify(ctx, text)
		if err != nil {
			// No retry: the message stays at the unclassified sentinel
			logger.Log.WithFields(logrus.Fields{"message_id": messageID, "error": err}).Warn("Classification failed")
			return
		}

		if err := c.db.SetMessageEmotion(messageID, code); err != nil {
			logger.Log.WithFields(logrus.Fields{"message_id": messageID, "emotion": code, "error": err}).Warn("Failed to record emotion")
			return
		}

		logger.Log.WithFields(logrus.Fields{"message_id": messageID, "emotion": code}).Debug("Message classified")
	}()
}

// Classify calls the classification endpoint synchronously and returns the
// predicted emotion code
func (c *Client) Classify(ctx context.Context, text string) (int, error) {
	jsonData, err := json.Marshal(classifyRequest{Text: text})
	if err != nil {
		return 0, fmt.Errorf("error marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return 0, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("error calling classification API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return 0, fmt.Errorf("classification API returned status %d: %s", resp.StatusCode, string(body))
	}

	var classifyResp classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&classifyResp); err != nil {
		return 0, fmt.Errorf("error decoding response: %w", err)
	}

	if !db.ValidEmotion(classifyResp.PredictedClass) {
		return 0, fmt.Errorf("unknown emotion code: %d", classifyResp.PredictedClass)
	}

	return classifyResp.PredictedClass, nil
}

// Wait blocks until all in-flight classifications have finished. Used by
// tests and graceful shutdown.
func (c *Client) Wait() {
	c.wg.Wait()
}
