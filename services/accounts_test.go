package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newAccountService(t *testing.T) *AccountService {
	t.Helper()
	return NewAccountService(newTestDB(t), zap.NewNop())
}

func TestSignupAndLogin(t *testing.T) {
	s := newAccountService(t)

	profile, err := s.Signup("alice", "secret123", "alice@example.org", "MIT", "")
	require.NoError(t, err)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, "Author", profile.Role)
	require.NotNil(t, profile.Affiliation)
	assert.Equal(t, "MIT", *profile.Affiliation)
	assert.Nil(t, profile.ORCID)

	loggedIn, err := s.Login("alice", "secret123")
	require.NoError(t, err)
	assert.Equal(t, profile.UserID, loggedIn.UserID)

	_, err = s.Login("alice", "wrong")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
	assert.EqualError(t, err, "Invalid username or password")

	_, err = s.Login("nobody", "secret123")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
}

func TestLoginComparesExactString(t *testing.T) {
	s := newAccountService(t)

	_, err := s.Signup("alice", "Secret123", "alice@example.org", "", "")
	require.NoError(t, err)

	// Passwörter werden unverändert verglichen, keine Normalisierung
	_, err = s.Login("alice", "secret123")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
	_, err = s.Login("alice", "Secret123 ")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
}

func TestSignupRejectsDuplicates(t *testing.T) {
	s := newAccountService(t)

	_, err := s.Signup("alice", "secret123", "alice@example.org", "", "")
	require.NoError(t, err)

	_, err = s.Signup("alice", "other", "new@example.org", "", "")
	assert.True(t, errors.Is(err, ErrUsernameExists))
	assert.EqualError(t, err, "Username already exists")

	_, err = s.Signup("bob", "other", "alice@example.org", "", "")
	assert.True(t, errors.Is(err, ErrEmailExists))
	assert.EqualError(t, err, "Email already exists")

	// Fehlgeschlagene Registrierungen hinterlassen kein zweites Konto
	profiles, err := s.ListUsers()
	require.NoError(t, err)
	assert.Len(t, profiles, 1)
}

func TestSignupRequiredFields(t *testing.T) {
	s := newAccountService(t)

	_, err := s.Signup("  ", "secret123", "alice@example.org", "", "")
	assert.True(t, errors.Is(err, ErrUsernameRequired))

	_, err = s.Signup("alice", "  ", "alice@example.org", "", "")
	assert.True(t, errors.Is(err, ErrPasswordRequired))
	assert.EqualError(t, err, "PasswordHash is required")

	_, err = s.Signup("alice", "secret123", "", "", "")
	assert.True(t, errors.Is(err, ErrEmailRequired))
}

func TestUpdateUser(t *testing.T) {
	s := newAccountService(t)

	alice, err := s.Signup("alice", "secret123", "alice@example.org", "", "")
	require.NoError(t, err)
	_, err = s.Signup("bob", "secret123", "bob@example.org", "", "")
	require.NoError(t, err)

	updated, err := s.UpdateUser(alice.UserID, "alice@new.org", "Stanford", "0000-0001")
	require.NoError(t, err)
	assert.Equal(t, "alice@new.org", updated.Email)
	require.NotNil(t, updated.Affiliation)
	assert.Equal(t, "Stanford", *updated.Affiliation)

	// Fremde E-Mail darf nicht übernommen werden
	_, err = s.UpdateUser(alice.UserID, "bob@example.org", "", "")
	assert.True(t, errors.Is(err, ErrEmailInUse))
	assert.EqualError(t, err, "Email already in use")

	_, err = s.UpdateUser(999, "x@example.org", "", "")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestUpdatePassword(t *testing.T) {
	s := newAccountService(t)

	alice, err := s.Signup("alice", "oldpassword", "alice@example.org", "", "")
	require.NoError(t, err)

	require.NoError(t, s.UpdatePassword(alice.UserID, "newpassword"))

	_, err = s.Login("alice", "oldpassword")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
	_, err = s.Login("alice", "newpassword")
	assert.NoError(t, err)

	err = s.UpdatePassword(999, "whatever")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestDeleteUser(t *testing.T) {
	s := newAccountService(t)

	alice, err := s.Signup("alice", "secret123", "alice@example.org", "", "")
	require.NoError(t, err)

	require.NoError(t, s.DeleteUser(alice.UserID))

	_, err = s.GetUser(alice.UserID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	err = s.DeleteUser(alice.UserID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
