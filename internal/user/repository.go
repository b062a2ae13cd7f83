package user

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var (
	ErrUserNotFound = errors.New("user not found")
)

type User struct {
	ID                string
	Username          string
	Email             string
	PasswordHash      string
	PreferredCurrency string
	TwoFactorEnabled  bool
	TwoFactorSecret   sql.NullString
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type Repository interface {
	createUser(user *User) error
	getUserByEmail(email string) (*User, error)
	getUserByUsernameOrEmail(username, email string) (*User, error)
	getUserByID(id string) (*User, error)
	updatePassword(userID, newPasswordHash string) error
	updatePreferredCurrency(userID, currency string) error
	setTwoFactor(userID string, enabled bool, secret sql.NullString) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) Repository {
	return &userRepository{
		db: db,
	}
}

const userColumns = `id, username, email, password_hash, preferred_currency, two_factor_enabled, two_factor_secret, created_at, updated_at`

func scanUser(row *sql.Row) (*User, error) {
	var user User
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.PreferredCurrency,
		&user.TwoFactorEnabled, &user.TwoFactorSecret, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("could not find user: %v", err)
	}
	return &user, nil
}

func (r *userRepository) createUser(user *User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, preferred_currency, two_factor_enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(query, user.ID, user.Username, user.Email, user.PasswordHash, user.PreferredCurrency, user.TwoFactorEnabled)
	if err != nil {
		return fmt.Errorf("could not create user: %v", err)
	}
	return nil
}

func (r *userRepository) getUserByEmail(email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRow(query, email))
}

func (r *userRepository) getUserByUsernameOrEmail(username, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR email = $2`
	return scanUser(r.db.QueryRow(query, username, email))
}

func (r *userRepository) getUserByID(id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(query, id))
}

func (r *userRepository) updatePassword(userID, newPasswordHash string) error {
	query := `
		UPDATE users
		SET password_hash = $1,
		    updated_at = NOW()
		WHERE id = $2
	`
	_, err := r.db.Exec(query, newPasswordHash, userID)
	if err != nil {
		return fmt.Errorf("could not update password: %v", err)
	}
	return nil
}

func (r *userRepository) updatePreferredCurrency(userID, currency string) error {
	query := `
		UPDATE users
		SET preferred_currency = $1,
		    updated_at = NOW()
		WHERE id = $2
	`
	_, err := r.db.Exec(query, currency, userID)
	if err != nil {
		return fmt.Errorf("could not update preferred currency: %v", err)
	}
	return nil
}

func (r *userRepository) setTwoFactor(userID string, enabled bool, secret sql.NullString) error {
	query := `
		UPDATE users
		SET two_factor_enabled = $1,
		    two_factor_secret = $2,
		    updated_at = NOW()
		WHERE id = $3
	`
	_, err := r.db.Exec(query, enabled, secret, userID)
	if err != nil {
		return fmt.Errorf("could not update two-factor settings: %v", err)
	}
	return nil
}
