package main

import (
	"net/http"

	"humdum-app/internal/app"
	"humdum-app/internal/auth"
	"humdum-app/internal/config"
	"humdum-app/internal/handlers"
	"humdum-app/internal/logger"
	"humdum-app/internal/mailer"
	"humdum-app/internal/repository/postgres"
	"humdum-app/internal/service/classifier"
	"humdum-app/internal/service/llm"

	"github.com/joho/godotenv"
)

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	}
}

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err != nil {
		logger.Log.Debug("No .env file found")
	}

	appConfig, err := config.LoadConfig()
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	database, err := postgres.NewPostgresDB(appConfig.Database)
	if err != nil {
		logger.Log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	provider, err := llm.NewProvider(&appConfig.LLM)
	if err != nil {
		logger.Log.Fatalf("Failed to create inference provider: %v", err)
	}
	logger.Log.WithField("provider", provider.Name()).Info("Inference provider ready")

	classifierClient := classifier.NewClient(&appConfig.Classifier, database)
	smtpMailer := mailer.NewSMTPMailer(appConfig.Mail)

	appCfg := app.NewConfig(database, appConfig, provider, classifierClient, smtpMailer)

	authBoundary := auth.New(database, &appConfig.Auth, smtpMailer)
	chatHandlers := handlers.NewChatHandlers(appCfg)

	mux := http.NewServeMux()

	corsHandler := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.WriteHeader(http.StatusOK)
	}

	// Public routes
	mux.HandleFunc("POST /api/auth/signup", enableCORS(authBoundary.SignupHandler))
	mux.HandleFunc("OPTIONS /api/auth/signup", corsHandler)
	mux.HandleFunc("POST /api/auth/login", enableCORS(authBoundary.LoginHandler))
	mux.HandleFunc("OPTIONS /api/auth/login", corsHandler)
	mux.HandleFunc("POST /api/auth/forgot-password", enableCORS(authBoundary.ForgotPasswordHandler))
	mux.HandleFunc("OPTIONS /api/auth/forgot-password", corsHandler)
	mux.HandleFunc("POST /api/auth/reset-password", enableCORS(authBoundary.ResetPasswordHandler))
	mux.HandleFunc("OPTIONS /api/auth/reset-password", corsHandler)
	mux.HandleFunc("GET /api/health", enableCORS(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}))

	// Protected account routes
	mux.HandleFunc("GET /api/auth/validate-token", enableCORS(authBoundary.Middleware(authBoundary.ValidateTokenHandler)))
	mux.HandleFunc("GET /api/auth/profile", enableCORS(authBoundary.Middleware(authBoundary.ProfileHandler)))
	mux.HandleFunc("POST /api/auth/change-password", enableCORS(authBoundary.Middleware(authBoundary.ChangePasswordHandler)))
	mux.HandleFunc("OPTIONS /api/auth/change-password", corsHandler)
	mux.HandleFunc("POST /api/auth/delete-account", enableCORS(authBoundary.Middleware(authBoundary.DeleteAccountHandler)))
	mux.HandleFunc("OPTIONS /api/auth/delete-account", corsHandler)

	// Protected chat routes
	mux.HandleFunc("POST /api/chat/new-conversation", enableCORS(authBoundary.Middleware(chatHandlers.NewConversationHandler)))
	mux.HandleFunc("OPTIONS /api/chat/new-conversation", corsHandler)
	mux.HandleFunc("POST /api/chat/save-message", enableCORS(authBoundary.Middleware(chatHandlers.SaveMessageHandler)))
	mux.HandleFunc("OPTIONS /api/chat/save-message", corsHandler)
	mux.HandleFunc("POST /api/chat/bot-reply", enableCORS(authBoundary.Middleware(chatHandlers.BotReplyHandler)))
	mux.HandleFunc("OPTIONS /api/chat/bot-reply", corsHandler)
	mux.HandleFunc("GET /api/chat/conversations", enableCORS(authBoundary.Middleware(chatHandlers.GetConversationsHandler)))
	mux.HandleFunc("OPTIONS /api/chat/conversations", corsHandler)
	mux.HandleFunc("GET /api/chat/conversations/{id}/messages", enableCORS(authBoundary.Middleware(chatHandlers.GetConversationMessagesHandler)))
	mux.HandleFunc("OPTIONS /api/chat/conversations/{id}/messages", corsHandler)
	mux.HandleFunc("DELETE /api/chat/conversations/{id}", enableCORS(authBoundary.Middleware(chatHandlers.DeleteConversationHandler)))
	mux.HandleFunc("OPTIONS /api/chat/conversations/{id}", corsHandler)

	// Protected mood routes
	mux.HandleFunc("GET /api/mood/history", enableCORS(authBoundary.Middleware(chatHandlers.GetMoodHistoryHandler)))
	mux.HandleFunc("OPTIONS /api/mood/history", corsHandler)

	logger.Log.WithField("port", appConfig.Server.Port).Info("Server starting")

	if err := http.ListenAndServe(":"+appConfig.Server.Port, mux); err != nil {
		logger.Log.Fatalf("Server failed to start: %v", err)
	}
}
