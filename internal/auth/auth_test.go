package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/d60-Lab/blog-admin/config"
	"github.com/d60-Lab/blog-admin/internal/model"
)

func newAuthenticator(t *testing.T) *Authenticator {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAuthenticator(
		config.JWTConfig{Secret: "test-secret", TTL: time.Hour, Issuer: "blog-admin"},
		[]config.UserConfig{{Username: "admin", PasswordHash: string(hash), Authorities: []string{model.RoleAdmin, model.RoleUser}}},
	)
}

func TestAuthenticate(t *testing.T) {
	a := newAuthenticator(t)

	token, err := a.Authenticate("admin", "admin")
	require.NoError(t, err)

	claims, err := a.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.True(t, claims.HasAuthority(model.RoleAdmin))
	assert.NotEmpty(t, claims.ID)

	_, err = a.Authenticate("admin", "wrong")
	assert.ErrorIs(t, err, ErrBadCredentials)
	_, err = a.Authenticate("nobody", "admin")
	assert.ErrorIs(t, err, ErrBadCredentials)
}

func TestParseRejects(t *testing.T) {
	a := newAuthenticator(t)
	token, err := a.Issue("user", []string{model.RoleUser})
	require.NoError(t, err)

	other := NewAuthenticator(config.JWTConfig{Secret: "other", Issuer: "blog-admin"}, nil)
	_, err = other.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	a.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = a.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = a.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHashPassword(t *testing.T) {
	h, err := HashPassword("secret")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(h), []byte("secret")))
}
