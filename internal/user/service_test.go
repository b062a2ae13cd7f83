package user

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

type mockRepository struct {
	users map[string]*User
}

func newMockRepository() *mockRepository {
	return &mockRepository{users: make(map[string]*User)}
}

func (m *mockRepository) createUser(user *User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockRepository) getUserByEmail(email string) (*User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *mockRepository) getUserByUsernameOrEmail(username, email string) (*User, error) {
	for _, user := range m.users {
		if user.Username == username || user.Email == email {
			return user, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *mockRepository) getUserByID(id string) (*User, error) {
	if user, ok := m.users[id]; ok {
		return user, nil
	}
	return nil, ErrUserNotFound
}

func (m *mockRepository) updatePassword(userID, newPasswordHash string) error {
	user, ok := m.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.PasswordHash = newPasswordHash
	return nil
}

func (m *mockRepository) updatePreferredCurrency(userID, currency string) error {
	user, ok := m.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.PreferredCurrency = currency
	return nil
}

func (m *mockRepository) setTwoFactor(userID string, enabled bool, secret sql.NullString) error {
	user, ok := m.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.TwoFactorEnabled = enabled
	user.TwoFactorSecret = secret
	return nil
}

func TestRegister_Success(t *testing.T) {
	service := NewUserService(newMockRepository())

	user, err := service.Register("jdoe", "jdoe@example.com", "correct-horse", "EUR")

	assert.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "EUR", user.PreferredCurrency)
	assert.NotEqual(t, "correct-horse", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct-horse")))
}

func TestRegister_DefaultsCurrency(t *testing.T) {
	service := NewUserService(newMockRepository())

	user, err := service.Register("jdoe", "jdoe@example.com", "correct-horse", "")

	assert.NoError(t, err)
	assert.Equal(t, "USD", user.PreferredCurrency)
}

func TestRegister_RejectsInvalidInput(t *testing.T) {
	service := NewUserService(newMockRepository())

	_, err := service.Register("", "jdoe@example.com", "correct-horse", "")
	assert.ErrorIs(t, err, ErrUsernameRequired)

	_, err = service.Register("jdoe", "not-an-email", "correct-horse", "")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = service.Register("jdoe", "jdoe@example.com", "short", "")
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = service.Register("jdoe", "jdoe@example.com", "correct-horse", "XYZ")
	assert.ErrorIs(t, err, ErrInvalidCurrency)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	service := NewUserService(newMockRepository())

	_, err := service.Register("jdoe", "jdoe@example.com", "correct-horse", "")
	assert.NoError(t, err)

	_, err = service.Register("other", "jdoe@example.com", "correct-horse", "")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestChangePassword(t *testing.T) {
	repo := newMockRepository()
	service := NewUserService(repo)

	user, err := service.Register("jdoe", "jdoe@example.com", "correct-horse", "")
	assert.NoError(t, err)

	err = service.ChangePassword(user.ID, "wrong-password", "new-password-1")
	assert.ErrorIs(t, err, ErrInvalidOldPassword)

	err = service.ChangePassword(user.ID, "correct-horse", "short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)

	err = service.ChangePassword(user.ID, "correct-horse", "new-password-1")
	assert.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.users[user.ID].PasswordHash), []byte("new-password-1")))
}

func TestSetTwoFactor_StoresAndClearsSecret(t *testing.T) {
	repo := newMockRepository()
	service := NewUserService(repo)

	user, err := service.Register("jdoe", "jdoe@example.com", "correct-horse", "")
	assert.NoError(t, err)

	err = service.SetTwoFactor(user.ID, false, "SECRET")
	assert.NoError(t, err)
	secret, err := service.GetTwoFactorSecret(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, "SECRET", secret)

	err = service.SetTwoFactor(user.ID, true, "SECRET")
	assert.NoError(t, err)
	assert.True(t, repo.users[user.ID].TwoFactorEnabled)

	err = service.SetTwoFactor(user.ID, false, "")
	assert.NoError(t, err)
	_, err = service.GetTwoFactorSecret(user.ID)
	assert.ErrorIs(t, err, ErrTwoFactorUnavailable)
}
