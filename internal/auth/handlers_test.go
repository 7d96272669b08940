package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"humdum-app/internal/config"
	"humdum-app/internal/repository/db"
	"humdum-app/internal/testutil"

	"golang.org/x/crypto/bcrypt"
)

// mockMailer records sent reset codes
type mockMailer struct {
	to   string
	code string
	err  error
}

func (m *mockMailer) SendResetCode(to, code string) error {
	m.to = to
	m.code = code
	return m.err
}

func newHandlerTestAuth(mockDB *testutil.MockDatabase, sender *mockMailer) *Auth {
	return New(mockDB, &config.AuthConfig{
		JWTSecret:       []byte("test-secret-key-that-is-long-enough!"),
		TokenExpiration: time.Hour,
		ResetCodeTTL:    15 * time.Minute,
	}, sender)
}

func contextWithUser(r *http.Request, userID string) context.Context {
	return context.WithValue(r.Context(), UserContextKey, userID)
}

func postJSON(path string, body interface{}) *http.Request {
	data, _ := json.Marshal(body)
	return httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
}

func TestSignupHandler_Success(t *testing.T) {
	mockDB := &testutil.MockDatabase{
		CreateUserFunc: func(email, name, passwordHash string) (*db.User, error) {
			if email != "alex@example.com" {
				t.Errorf("email: got %q", email)
			}
			if passwordHash == "password123" {
				t.Error("password stored in plaintext")
			}
			return &db.User{ID: "user-1", Email: email, Name: name, PasswordHash: passwordHash}, nil
		},
	}
	a := newHandlerTestAuth(mockDB, &mockMailer{})

	req := postJSON("/api/auth/signup", SignupRequest{Email: "alex@example.com", Name: "Alex", Password: "password123"})
	rec := httptest.NewRecorder()

	a.SignupHandler(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201, body: %s", rec.Code, rec.Body.String())
	}

	var resp SignupResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Token == "" {
		t.Error("signup must return a session token")
	}

	claims, err := a.ValidateToken(resp.Token)
	if err != nil {
		t.Fatalf("signup token failed validation: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Errorf("token user ID: got %q, want user-1", claims.UserID)
	}
}

func TestSignupHandler_DuplicateEmail(t *testing.T) {
	mockDB := &testutil.MockDatabase{
		CreateUserFunc: func(email, name, passwordHash string) (*db.User, error) {
			return nil, db.ErrDuplicateEmail
		},
	}
	a := newHandlerTestAuth(mockDB, &mockMailer{})

	req := postJSON("/api/auth/signup", SignupRequest{Email: "alex@example.com", Name: "Alex", Password: "password123"})
	rec := httptest.NewRecorder()

	a.SignupHandler(rec, req)

	if rec.Code != http.StatusConflict {
		t.Errorf("status: got %d, want 409", rec.Code)
	}
}

func TestSignupHandler_InvalidRequest(t *testing.T) {
	a := newHandlerTestAuth(&testutil.MockDatabase{}, &mockMailer{})

	cases := []struct {
		name string
		req  SignupRequest
	}{
		{"bad email", SignupRequest{Email: "not-an-email", Name: "Alex", Password: "password123"}},
		{"short password", SignupRequest{Email: "alex@example.com", Name: "Alex", Password: "12345"}},
		{"empty name", SignupRequest{Email: "alex@example.com", Password: "password123"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			a.SignupHandler(rec, postJSON("/api/auth/signup", tc.req))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400", rec.Code)
			}
		})
	}
}

func TestLoginHandler_Success(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	mockDB := &testutil.MockDatabase{
		GetUserByEmailFunc: func(email string) (*db.User, error) {
			return &db.User{ID: "user-1", Email: email, PasswordHash: string(hashed)}, nil
		},
	}
	a := newHandlerTestAuth(mockDB, &mockMailer{})

	rec := httptest.NewRecorder()
	a.LoginHandler(rec, postJSON("/api/auth/login", LoginRequest{Email: "alex@example.com", Password: "password123"}))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}

	var resp LoginResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Token == "" {
		t.Error("login must return a session token")
	}
}

func TestLoginHandler_InvalidCredentials(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)

	t.Run("unknown email", func(t *testing.T) {
		mockDB := &testutil.MockDatabase{
			GetUserByEmailFunc: func(email string) (*db.User, error) {
				return nil, db.ErrNotFound
			},
		}
		a := newHandlerTestAuth(mockDB, &mockMailer{})

		rec := httptest.NewRecorder()
		a.LoginHandler(rec, postJSON("/api/auth/login", LoginRequest{Email: "ghost@example.com", Password: "password123"}))

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", rec.Code)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		mockDB := &testutil.MockDatabase{
			GetUserByEmailFunc: func(email string) (*db.User, error) {
				return &db.User{ID: "user-1", Email: email, PasswordHash: string(hashed)}, nil
			},
		}
		a := newHandlerTestAuth(mockDB, &mockMailer{})

		rec := httptest.NewRecorder()
		a.LoginHandler(rec, postJSON("/api/auth/login", LoginRequest{Email: "alex@example.com", Password: "wrong-password"}))

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status: got %d, want 401", rec.Code)
		}
	})
}

func TestForgotPasswordHandler_SendsCode(t *testing.T) {
	var storedCode string
	var storedExpires time.Time

	mockDB := &testutil.MockDatabase{
		GetUserByEmailFunc: func(email string) (*db.User, error) {
			return &db.User{ID: "user-1", Email: email}, nil
		},
		SetResetCodeFunc: func(email, code string, expires time.Time) error {
			storedCode = code
			storedExpires = expires
			return nil
		},
	}
	sender := &mockMailer{}
	a := newHandlerTestAuth(mockDB, sender)

	rec := httptest.NewRecorder()
	a.ForgotPasswordHandler(rec, postJSON("/api/auth/forgot-password", ForgotPasswordRequest{Email: "alex@example.com"}))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}

	if len(storedCode) != 6 {
		t.Errorf("stored code %q is not 6 digits", storedCode)
	}
	for _, r := range storedCode {
		if r < '0' || r > '9' {
			t.Errorf("stored code %q contains non-digit", storedCode)
		}
	}
	if sender.code != storedCode {
		t.Errorf("mailed code %q differs from stored code %q", sender.code, storedCode)
	}
	if sender.to != "alex@example.com" {
		t.Errorf("mailed to %q", sender.to)
	}

	ttl := time.Until(storedExpires)
	if ttl < 14*time.Minute || ttl > 16*time.Minute {
		t.Errorf("reset code TTL out of range: %v", ttl)
	}
}

func TestForgotPasswordHandler_UnknownEmail(t *testing.T) {
	mockDB := &testutil.MockDatabase{
		GetUserByEmailFunc: func(email string) (*db.User, error) {
			return nil, db.ErrNotFound
		},
	}
	a := newHandlerTestAuth(mockDB, &mockMailer{})

	rec := httptest.NewRecorder()
	a.ForgotPasswordHandler(rec, postJSON("/api/auth/forgot-password", ForgotPasswordRequest{Email: "ghost@example.com"}))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
}

func TestResetPasswordHandler_Success(t *testing.T) {
	code := "042917"
	expires := time.Now().Add(10 * time.Minute)
	updated := false

	mockDB := &testutil.MockDatabase{
		GetUserByEmailFunc: func(email string) (*db.User, error) {
			return &db.User{ID: "user-1", Email: email, ResetCode: &code, ResetCodeExpires: &expires}, nil
		},
		UpdatePasswordFunc: func(email, passwordHash string) error {
			if passwordHash == "new-password-123" {
				t.Error("new password stored in plaintext")
			}
			updated = true
			return nil
		},
	}
	a := newHandlerTestAuth(mockDB, &mockMailer{})

	rec := httptest.NewRecorder()
	a.ResetPasswordHandler(rec, postJSON("/api/auth/reset-password", ResetPasswordRequest{
		Email:       "alex@example.com",
		Code:        "042917",
		NewPassword: "new-password-123",
	}))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200, body: %s", rec.Code, rec.Body.String())
	}
	if !updated {
		t.Error("password was never updated")
	}
}

func TestResetPasswordHandler_Rejections(t *testing.T) {
	goodCode := "042917"
	future := time.Now().Add(10 * time.Minute)
	past := time.Now().Add(-time.Minute)

	cases := []struct {
		name string
		user *db.User
		code string
	}{
		{"wrong code", &db.User{ID: "user-1", ResetCode: &goodCode, ResetCodeExpires: &future}, "111111"},
		{"expired code", &db.User{ID: "user-1", ResetCode: &goodCode, ResetCodeExpires: &past}, "042917"},
		{"no code requested", &db.User{ID: "user-1"}, "042917"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockDB := &testutil.MockDatabase{
				GetUserByEmailFunc: func(email string) (*db.User, error) {
					u := *tc.user
					u.Email = email
					return &u, nil
				},
				UpdatePasswordFunc: func(email, passwordHash string) error {
					t.Error("password must not change for a rejected code")
					return nil
				},
			}
			a := newHandlerTestAuth(mockDB, &mockMailer{})

			rec := httptest.NewRecorder()
			a.ResetPasswordHandler(rec, postJSON("/api/auth/reset-password", ResetPasswordRequest{
				Email:       "alex@example.com",
				Code:        tc.code,
				NewPassword: "new-password-123",
			}))

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400", rec.Code)
			}
		})
	}
}

func TestChangePasswordHandler(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("current-pass"), bcrypt.MinCost)

	mockDB := &testutil.MockDatabase{
		GetUserByIDFunc: func(id string) (*db.User, error) {
			return &db.User{ID: id, Email: "alex@example.com", PasswordHash: string(hashed)}, nil
		},
		UpdatePasswordFunc: func(email, passwordHash string) error {
			return nil
		},
	}
	a := newHandlerTestAuth(mockDB, &mockMailer{})

	t.Run("success", func(t *testing.T) {
		req := postJSON("/api/auth/change-password", ChangePasswordRequest{CurrentPassword: "current-pass", NewPassword: "brand-new-pass"})
		req = req.WithContext(contextWithUser(req, "user-1"))
		rec := httptest.NewRecorder()

		a.ChangePasswordHandler(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("status: got %d, want 200", rec.Code)
		}
	})

	t.Run("wrong current password", func(t *testing.T) {
		req := postJSON("/api/auth/change-password", ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "brand-new-pass"})
		req = req.WithContext(contextWithUser(req, "user-1"))
		rec := httptest.NewRecorder()

		a.ChangePasswordHandler(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status: got %d, want 400", rec.Code)
		}
	})
}

func TestProfileHandler(t *testing.T) {
	mockDB := &testutil.MockDatabase{
		GetUserByIDFunc: func(id string) (*db.User, error) {
			return &db.User{ID: id, Name: "Alex", Email: "alex@example.com"}, nil
		},
	}
	a := newHandlerTestAuth(mockDB, &mockMailer{})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
	req = req.WithContext(contextWithUser(req, "user-1"))
	rec := httptest.NewRecorder()

	a.ProfileHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}

	var resp ProfileResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ID != "user-1" || resp.Name != "Alex" || resp.Email != "alex@example.com" {
		t.Errorf("unexpected profile: %+v", resp)
	}
}
