package config

import (
	"fmt"
	"os"
	"time"

	"humdum-app/internal/logger"

	"github.com/sirupsen/logrus"
)

// AppConfig holds all application configuration
type AppConfig struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Auth       AuthConfig
	LLM        LLMConfig
	Classifier ClassifierConfig
	Mail       MailConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecret       []byte
	TokenExpiration time.Duration
	ResetCodeTTL    time.Duration
}

// LLMConfig holds inference service configuration
type LLMConfig struct {
	Provider      string // "ollama" or "openai"
	OllamaBaseURL string
	OpenAIBaseURL string
	OpenAIAPIKey  string
	Model         string
	SystemPrompt  string
	FallbackReply string
	Timeout       time.Duration
}

// ClassifierConfig holds emotion classification service configuration
type ClassifierConfig struct {
	URL     string
	Timeout time.Duration
}

// MailConfig holds SMTP configuration for password reset mail
type MailConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

const defaultSystemPrompt = "You are a mental health assistant named HumDum. " +
	"Give short empathetic responses and help the user feel better."

const defaultFallbackReply = "I'm having trouble responding right now. " +
	"Please give me a moment and try again."

// LoadConfig loads and validates application configuration from environment
func LoadConfig() (*AppConfig, error) {
	config := &AppConfig{}

	config.Server = ServerConfig{
		Port: getEnvOrDefault("SERVER_PORT", "8080"),
	}

	config.Database = DatabaseConfig{
		Host:     getEnvOrDefault("DB_HOST", "postgres"),
		Port:     getEnvOrDefault("DB_PORT", "5432"),
		User:     getEnvOrDefault("DB_USER", "postgres"),
		Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
		Name:     getEnvOrDefault("DB_NAME", "humdum"),
		SSLMode:  getEnvOrDefault("DB_SSLMODE", "disable"),
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable must be set")
	}
	if len(jwtSecret) < 32 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 32 characters (current length: %d)", len(jwtSecret))
	}

	config.Auth = AuthConfig{
		JWTSecret:       []byte(jwtSecret),
		TokenExpiration: getEnvAsDuration("JWT_TOKEN_EXPIRATION", 7*24*time.Hour),
		ResetCodeTTL:    getEnvAsDuration("RESET_CODE_TTL", 15*time.Minute),
	}

	config.LLM = LLMConfig{
		Provider:      getEnvOrDefault("LLM_PROVIDER", "ollama"),
		OllamaBaseURL: getEnvOrDefault("OLLAMA_BASE_URL", "http://127.0.0.1:11434"),
		OpenAIBaseURL: getEnvOrDefault("OPENAI_BASE_URL", ""),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		Model:         getEnvOrDefault("LLM_MODEL", "humdum_3.1"),
		SystemPrompt:  getEnvOrDefault("LLM_SYSTEM_PROMPT", defaultSystemPrompt),
		FallbackReply: getEnvOrDefault("LLM_FALLBACK_REPLY", defaultFallbackReply),
		Timeout:       getEnvAsDuration("LLM_TIMEOUT", 60*time.Second),
	}

	config.Classifier = ClassifierConfig{
		URL:     getEnvOrDefault("CLASSIFIER_URL", "http://127.0.0.1:3001/classify"),
		Timeout: getEnvAsDuration("CLASSIFIER_TIMEOUT", 10*time.Second),
	}

	config.Mail = MailConfig{
		Host:     getEnvOrDefault("SMTP_HOST", "smtp.gmail.com"),
		Port:     getEnvOrDefault("SMTP_PORT", "587"),
		Username: os.Getenv("SMTP_USER"),
		Password: os.Getenv("SMTP_PASS"),
		From:     getEnvOrDefault("SMTP_FROM", os.Getenv("SMTP_USER")),
	}

	return config, nil
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Helper functions for environment variable parsing

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{"key": key, "default": defaultValue}).Warn("Invalid duration value, using default")
		return defaultValue
	}
	return value
}
