package auth

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"humdum-app/internal/logger"
	"humdum-app/internal/repository/db"
	"humdum-app/pkg/validation"

	"golang.org/x/crypto/bcrypt"
)

type SignupRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type SignupResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"new_password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type ProfileResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

var validator = validation.NewAuthRequestValidator()

// SignupHandler creates a new user account and returns a session token
func (a *Auth) SignupHandler(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := validator.ValidateSignupRequest(req.Email, req.Name, req.Password); err != nil {
		sendError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		sendError(w, http.StatusInternalServerError, "Error creating user", nil)
		return
	}

	user, err := a.db.CreateUser(req.Email, req.Name, string(hashed))
	if err != nil {
		if errors.Is(err, db.ErrDuplicateEmail) {
			sendError(w, http.StatusConflict, "Email already exists", nil)
			return
		}
		logger.Log.WithField("error", err).Error("Signup failed")
		sendError(w, http.StatusInternalServerError, "Error creating user", nil)
		return
	}

	token, err := a.GenerateToken(user.ID)
	if err != nil {
		sendError(w, http.StatusInternalServerError, "Error generating token", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(SignupResponse{
		Message: "User created successfully",
		Token:   token,
	})
}

// LoginHandler authenticates a user and returns a session token
func (a *Auth) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := validator.ValidateLoginRequest(req.Email, req.Password); err != nil {
		sendError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	user, err := a.db.GetUserByEmail(req.Email)
	if err != nil {
		logger.Log.WithField("email", req.Email).Info("Login failed: user not found")
		sendError(w, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		logger.Log.WithField("email", req.Email).Info("Login failed: invalid password")
		sendError(w, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	token, err := a.GenerateToken(user.ID)
	if err != nil {
		sendError(w, http.StatusInternalServerError, "Error generating token", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(LoginResponse{Token: token})
}

// ForgotPasswordHandler stores a short-lived reset code and emails it
func (a *Auth) ForgotPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := validator.ValidateEmail(req.Email); err != nil {
		sendError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	if _, err := a.db.GetUserByEmail(req.Email); err != nil {
		sendError(w, http.StatusNotFound, "Email not found", nil)
		return
	}

	code, err := generateResetCode()
	if err != nil {
		sendError(w, http.StatusInternalServerError, "Error generating reset code", nil)
		return
	}

	expires := time.Now().Add(a.config.ResetCodeTTL)
	if err := a.db.SetResetCode(req.Email, code, expires); err != nil {
		logger.Log.WithField("error", err).Error("Failed to store reset code")
		sendError(w, http.StatusInternalServerError, "Error storing reset code", nil)
		return
	}

	if err := a.mailer.SendResetCode(req.Email, code); err != nil {
		logger.Log.WithField("error", err).Error("Failed to send reset code")
		sendError(w, http.StatusInternalServerError, "Error sending reset code", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(MessageResponse{Message: "Reset code sent"})
}

// ResetPasswordHandler checks the emailed code and sets a new password
func (a *Auth) ResetPasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if err := validator.ValidateResetCode(req.Code); err != nil {
		sendError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if err := validator.ValidatePassword(req.NewPassword); err != nil {
		sendError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	user, err := a.db.GetUserByEmail(req.Email)
	if err != nil {
		sendError(w, http.StatusBadRequest, "Invalid or expired code", nil)
		return
	}

	if user.ResetCode == nil || *user.ResetCode != req.Code ||
		user.ResetCodeExpires == nil || time.Now().After(*user.ResetCodeExpires) {
		sendError(w, http.StatusBadRequest, "Invalid or expired code", nil)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		sendError(w, http.StatusInternalServerError, "Error resetting password", nil)
		return
	}

	// UpdatePassword also clears the reset code, so a code is single-use
	if err := a.db.UpdatePassword(req.Email, string(hashed)); err != nil {
		logger.Log.WithField("error", err).Error("Failed to reset password")
		sendError(w, http.StatusInternalServerError, "Error resetting password", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(MessageResponse{Message: "Password reset successful"})
}

// ChangePasswordHandler replaces the authenticated user's password
func (a *Auth) ChangePasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if req.CurrentPassword == "" {
		sendError(w, http.StatusBadRequest, "current_password is required", nil)
		return
	}
	if err := validator.ValidatePassword(req.NewPassword); err != nil {
		sendError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	user, err := a.db.GetUserByID(UserID(r))
	if err != nil {
		sendError(w, http.StatusNotFound, "User not found", nil)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
		sendError(w, http.StatusBadRequest, "Current password is incorrect", nil)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		sendError(w, http.StatusInternalServerError, "Error changing password", nil)
		return
	}

	if err := a.db.UpdatePassword(user.Email, string(hashed)); err != nil {
		logger.Log.WithField("error", err).Error("Failed to change password")
		sendError(w, http.StatusInternalServerError, "Error changing password", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(MessageResponse{Message: "Password changed successfully"})
}

// ProfileHandler returns the authenticated user's name and identifiers
func (a *Auth) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	user, err := a.db.GetUserByID(UserID(r))
	if err != nil {
		sendError(w, http.StatusNotFound, "User not found", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ProfileResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	})
}

// ValidateTokenHandler confirms the bearer credential is still valid.
// The middleware already did the work by the time this runs.
func (a *Auth) ValidateTokenHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(MessageResponse{Message: "Token is valid"})
}

// DeleteAccountHandler removes the authenticated user's account.
// Conversations and messages cascade with it.
func (a *Auth) DeleteAccountHandler(w http.ResponseWriter, r *http.Request) {
	user, err := a.db.GetUserByID(UserID(r))
	if err != nil {
		sendError(w, http.StatusNotFound, "User not found", nil)
		return
	}

	if err := a.db.DeleteUser(user.Email); err != nil {
		logger.Log.WithField("error", err).Error("Failed to delete account")
		sendError(w, http.StatusInternalServerError, "Error deleting account", nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(MessageResponse{Message: "Account deleted successfully"})
}

// generateResetCode produces a 6-digit numeric code
func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
