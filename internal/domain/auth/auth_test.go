package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService([]byte("test-secret"), time.Hour)
	require.NoError(t, err)
	return svc
}

func TestLogin_KnownAccounts(t *testing.T) {
	svc := newTestService(t)

	user, token, err := svc.Login("admin", "123456")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, user.Role)
	assert.Equal(t, "Nguyễn Văn A", user.Name)
	assert.NotEmpty(t, token)

	user, _, err = svc.Login("waiter", "123456")
	require.NoError(t, err)
	assert.Equal(t, RoleWaiter, user.Role)
}

func TestLogin_CaseInsensitiveUsername(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.Login("Admin", "123456")
	assert.NoError(t, err)
}

func TestLogin_RejectsBadCredentials(t *testing.T) {
	svc := newTestService(t)

	_, _, err := svc.Login("admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login("nobody", "123456")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateToken_RoundTrip(t *testing.T) {
	svc := newTestService(t)

	user, token, err := svc.Login("admin", "123456")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.Username, claims.Username)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, user.ID, claims.Subject)
}

func TestValidateToken_RejectsGarbageAndWrongKey(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other, err2 := NewService([]byte("other-secret"), time.Hour)
	require.NoError(t, err2)
	_, token, err2 := other.Login("admin", "123456")
	require.NoError(t, err2)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_RejectsExpired(t *testing.T) {
	svc, err := NewService([]byte("test-secret"), -time.Minute)
	require.NoError(t, err)

	_, token, err := svc.Login("admin", "123456")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
