package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"humdum-app/internal/logger"
	"humdum-app/internal/repository/db"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// CreateUser inserts a new user with an already-hashed password
func (p *PostgresDB) CreateUser(email, name, passwordHash string) (*db.User, error) {
	userID := uuid.New().String()
	var createdAt time.Time

	query := `
	INSERT INTO users (id, email, name, password_hash)
	VALUES ($1, $2, $3, $4)
	RETURNING id, created_at
	`

	err := p.conn.QueryRow(query, userID, email, name, passwordHash).Scan(&userID, &createdAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return nil, db.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{"email": email, "user_id": userID}).Info("Created new user")

	return &db.User{
		ID:           userID,
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    createdAt,
	}, nil
}

// GetUserByEmail retrieves a user by email
func (p *PostgresDB) GetUserByEmail(email string) (*db.User, error) {
	var user db.User
	query := `
	SELECT id, email, name, password_hash, reset_code, reset_code_expires, created_at
	FROM users
	WHERE email = $1
	`

	err := p.conn.QueryRow(query, email).Scan(
		&user.ID, &user.Email, &user.Name, &user.PasswordHash,
		&user.ResetCode, &user.ResetCodeExpires, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	return &user, nil
}

// GetUserByID retrieves a user by identifier
func (p *PostgresDB) GetUserByID(id string) (*db.User, error) {
	var user db.User
	query := `
	SELECT id, email, name, password_hash, reset_code, reset_code_expires, created_at
	FROM users
	WHERE id = $1
	`

	err := p.conn.QueryRow(query, id).Scan(
		&user.ID, &user.Email, &user.Name, &user.PasswordHash,
		&user.ResetCode, &user.ResetCodeExpires, &user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}

	return &user, nil
}

// SetResetCode stores a password reset code and its expiry for a user
func (p *PostgresDB) SetResetCode(email, code string, expires time.Time) error {
	query := `UPDATE users SET reset_code = $1, reset_code_expires = $2 WHERE email = $3`

	result, err := p.conn.Exec(query, code, expires, email)
	if err != nil {
		return fmt.Errorf("error setting reset code: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return db.ErrNotFound
	}

	return nil
}

// UpdatePassword replaces the user's password hash and clears any reset code
func (p *PostgresDB) UpdatePassword(email, passwordHash string) error {
	query := `
	UPDATE users
	SET password_hash = $1, reset_code = NULL, reset_code_expires = NULL
	WHERE email = $2
	`

	result, err := p.conn.Exec(query, passwordHash, email)
	if err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return db.ErrNotFound
	}

	logger.Log.WithField("email", email).Info("Password updated")
	return nil
}

// ClearResetCode removes any pending reset code for a user
func (p *PostgresDB) ClearResetCode(email string) error {
	query := `UPDATE users SET reset_code = NULL, reset_code_expires = NULL WHERE email = $1`

	if _, err := p.conn.Exec(query, email); err != nil {
		return fmt.Errorf("error clearing reset code: %w", err)
	}
	return nil
}

// DeleteUser removes a user; conversations and messages cascade
func (p *PostgresDB) DeleteUser(email string) error {
	result, err := p.conn.Exec(`DELETE FROM users WHERE email = $1`, email)
	if err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return db.ErrNotFound
	}

	logger.Log.WithField("email", email).Info("Deleted user account")
	return nil
}
