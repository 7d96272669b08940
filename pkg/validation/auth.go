package validation

import (
	"errors"
	"fmt"
	"regexp"
)

// AuthRequestValidator validates authentication-related requests
type AuthRequestValidator struct{}

// NewAuthRequestValidator creates a new AuthRequestValidator
func NewAuthRequestValidator() *AuthRequestValidator {
	return &AuthRequestValidator{}
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail validates an email address (basic validation)
func (v *AuthRequestValidator) ValidateEmail(email string) error {
	if email == "" {
		return errors.New("email cannot be empty")
	}

	if !emailRegex.MatchString(email) {
		return errors.New("invalid email format")
	}

	if len(email) > 255 {
		return fmt.Errorf("email must be at most 255 characters long, got %d", len(email))
	}

	return nil
}

// ValidatePassword validates a password
func (v *AuthRequestValidator) ValidatePassword(password string) error {
	if password == "" {
		return errors.New("password cannot be empty")
	}

	if len(password) < 6 {
		return fmt.Errorf("password must be at least 6 characters long, got %d", len(password))
	}

	if len(password) > 128 {
		return fmt.Errorf("password must be at most 128 characters long, got %d", len(password))
	}

	return nil
}

// ValidateName validates a display name
func (v *AuthRequestValidator) ValidateName(name string) error {
	if name == "" {
		return errors.New("name cannot be empty")
	}

	if len(name) > 100 {
		return fmt.Errorf("name must be at most 100 characters long, got %d", len(name))
	}

	return nil
}

// ValidateResetCode validates a password reset code
func (v *AuthRequestValidator) ValidateResetCode(code string) error {
	if len(code) != 6 {
		return errors.New("reset code must be 6 digits")
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return errors.New("reset code must be 6 digits")
		}
	}
	return nil
}

// ValidateSignupRequest validates a signup request
func (v *AuthRequestValidator) ValidateSignupRequest(email, name, password string) error {
	if err := v.ValidateEmail(email); err != nil {
		return err
	}

	if err := v.ValidateName(name); err != nil {
		return err
	}

	if err := v.ValidatePassword(password); err != nil {
		return err
	}

	return nil
}

// ValidateLoginRequest validates a login request
func (v *AuthRequestValidator) ValidateLoginRequest(email, password string) error {
	if email == "" {
		return errors.New("email cannot be empty")
	}

	if password == "" {
		return errors.New("password cannot be empty")
	}

	return nil
}
