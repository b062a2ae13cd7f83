package user

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/badoux/checkmail"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserAlreadyExists    = errors.New("user with this email or username already exists")
	ErrInvalidEmail         = errors.New("email address is invalid")
	ErrPasswordTooShort     = errors.New("password must be at least 8 characters long")
	ErrInvalidCurrency      = errors.New("currency is not supported")
	ErrInvalidOldPassword   = errors.New("old password does not match")
	ErrUsernameRequired     = errors.New("username is required")
	ErrTwoFactorUnavailable = errors.New("two-factor secret is not set")
)

var supportedCurrencies = map[string]struct{}{
	"USD": {}, "EUR": {}, "GBP": {}, "PLN": {}, "CHF": {}, "JPY": {}, "CAD": {}, "AUD": {},
}

const defaultCurrency = "USD"

type Service interface {
	Register(username, email, password, preferredCurrency string) (*User, error)
	GetUserByID(userID string) (*User, error)
	GetUserByEmail(email string) (*User, error)
	ChangePassword(userID, oldPassword, newPassword string) error
	UpdatePreferredCurrency(userID, currency string) error
	SetTwoFactor(userID string, enabled bool, secret string) error
	GetTwoFactorSecret(userID string) (string, error)
}

type service struct {
	repo Repository
}

func NewUserService(repo Repository) Service {
	return &service{
		repo: repo,
	}
}

// Register creates a new account. Password strength and email syntax
// are validated here; uniqueness is checked against both username and
// email before insert.
func (s *service) Register(username, email, password, preferredCurrency string) (*User, error) {
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if err := checkmail.ValidateFormat(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if len(password) < 8 {
		return nil, ErrPasswordTooShort
	}
	if preferredCurrency == "" {
		preferredCurrency = defaultCurrency
	}
	if _, ok := supportedCurrencies[preferredCurrency]; !ok {
		return nil, ErrInvalidCurrency
	}

	existing, err := s.repo.getUserByUsernameOrEmail(username, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("could not check for existing user: %v", err)
	}
	if existing != nil {
		return nil, ErrUserAlreadyExists
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("could not hash password: %v", err)
	}

	user := &User{
		ID:                uuid.NewString(),
		Username:          username,
		Email:             email,
		PasswordHash:      passwordHash,
		PreferredCurrency: preferredCurrency,
	}
	if err := s.repo.createUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) GetUserByID(userID string) (*User, error) {
	return s.repo.getUserByID(userID)
}

func (s *service) GetUserByEmail(email string) (*User, error) {
	return s.repo.getUserByEmail(email)
}

func (s *service) ChangePassword(userID, oldPassword, newPassword string) error {
	user, err := s.repo.getUserByID(userID)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return ErrInvalidOldPassword
	}
	if len(newPassword) < 8 {
		return ErrPasswordTooShort
	}

	newHash, err := hashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("could not hash password: %v", err)
	}
	return s.repo.updatePassword(userID, newHash)
}

func (s *service) UpdatePreferredCurrency(userID, currency string) error {
	if _, ok := supportedCurrencies[currency]; !ok {
		return ErrInvalidCurrency
	}
	if _, err := s.repo.getUserByID(userID); err != nil {
		return err
	}
	return s.repo.updatePreferredCurrency(userID, currency)
}

// SetTwoFactor stores or clears the TOTP secret. A secret may be
// stored with enabled=false while setup awaits its first valid code;
// passing an empty secret clears it.
func (s *service) SetTwoFactor(userID string, enabled bool, secret string) error {
	if _, err := s.repo.getUserByID(userID); err != nil {
		return err
	}
	stored := sql.NullString{String: secret, Valid: secret != ""}
	return s.repo.setTwoFactor(userID, enabled, stored)
}

func (s *service) GetTwoFactorSecret(userID string) (string, error) {
	user, err := s.repo.getUserByID(userID)
	if err != nil {
		return "", err
	}
	if !user.TwoFactorSecret.Valid || user.TwoFactorSecret.String == "" {
		return "", ErrTwoFactorUnavailable
	}
	return user.TwoFactorSecret.String, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
