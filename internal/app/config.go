package app

import (
	"humdum-app/internal/config"
	"humdum-app/internal/mailer"
	"humdum-app/internal/repository/db"
	"humdum-app/internal/service/classifier"
	"humdum-app/internal/service/llm"
)

// Config holds all application dependencies and configuration
type Config struct {
	// Database interface for data persistence
	DB db.Database
	// Centralized application configuration
	AppConfig *config.AppConfig
	// Inference provider for assistant replies
	LLM llm.Provider
	// Fire-and-forget emotion classification client
	Classifier *classifier.Client
	// Password reset mail delivery
	Mailer mailer.Sender
}

// NewConfig creates a new application dependency container
func NewConfig(database db.Database, appConfig *config.AppConfig, provider llm.Provider, cls *classifier.Client, sender mailer.Sender) *Config {
	return &Config{
		DB:         database,
		AppConfig:  appConfig,
		LLM:        provider,
		Classifier: cls,
		Mailer:     sender,
	}
}
