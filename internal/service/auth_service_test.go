package service

import (
	"testing"
	"time"

	"crypto_cashier/internal/apperr"
	"crypto_cashier/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture(t *testing.T) (*fixture, *AuthService, *TokenIssuer) {
	t.Helper()
	f := newFixture(t, nil)

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, f.users.Create(ctx, &domain.User{
		ID:             "admin-1",
		Email:          "admin@example.com",
		HashedPassword: string(hash),
		Role:           domain.RoleAdmin,
	}))

	tokens := NewTokenIssuer("test-secret", time.Hour)
	return f, NewAuthService(f.users, tokens, f.audit), tokens
}

func TestLoginSuccess(t *testing.T) {
	f, auth, tokens := newAuthFixture(t)

	sess, err := auth.Login(ctx, RequestMeta{IP: "10.0.0.1"}, "Admin@Example.com", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, "admin-1", sess.User.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), sess.ExpiresAt, time.Minute)

	p, err := tokens.Parse(sess.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.Principal{UserID: "admin-1", Email: "admin@example.com", Role: domain.RoleAdmin}, p)

	assert.Equal(t, []string{domain.AuditActionLogin}, f.auditStore.Actions())
}

func TestLoginFailures(t *testing.T) {
	f, auth, _ := newAuthFixture(t)

	_, err := auth.Login(ctx, RequestMeta{}, "admin@example.com", "wrong")
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	_, err = auth.Login(ctx, RequestMeta{}, "ghost@example.com", "whatever")
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
	assert.Equal(t, "invalid email or password", apperr.Message(err))

	_, err = auth.Login(ctx, RequestMeta{}, "", "")
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	assert.Equal(t, []string{domain.AuditActionLoginFailed, domain.AuditActionLoginFailed}, f.auditStore.Actions())
}

func TestAuthenticate(t *testing.T) {
	_, auth, tokens := newAuthFixture(t)

	_, err := auth.Authenticate(ctx, "")
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	_, err = auth.Authenticate(ctx, "not.a.jwt")
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	// role comes from the stored user, not the token claims
	token, _, err := tokens.Issue(domain.Principal{UserID: "admin-1", Email: "admin@example.com", Role: domain.RoleOperator})
	require.NoError(t, err)
	p, err := auth.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", p.UserID)
	assert.Equal(t, domain.RoleAdmin, p.Role)

	ghost, _, err := tokens.Issue(domain.Principal{UserID: "u1", Email: "ghost@example.com", Role: domain.RoleAdmin})
	require.NoError(t, err)
	_, err = auth.Authenticate(ctx, ghost)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}

func TestAuthenticateDeletedUser(t *testing.T) {
	f, auth, _ := newAuthFixture(t)

	sess, err := auth.Login(ctx, RequestMeta{}, "admin@example.com", "correct-horse")
	require.NoError(t, err)
	_, err = auth.Authenticate(ctx, sess.Token)
	require.NoError(t, err)

	require.NoError(t, f.users.Delete(ctx, "admin-1"))
	_, err = auth.Authenticate(ctx, sess.Token)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}

func TestTokenExpiry(t *testing.T) {
	tokens := NewTokenIssuer("test-secret", time.Hour)
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	tokens.now = func() time.Time { return start }

	token, exp, err := tokens.Issue(domain.Principal{UserID: "u1", Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, start.Add(time.Hour), exp)

	tokens.now = func() time.Time { return start.Add(59 * time.Minute) }
	_, err = tokens.Parse(token)
	assert.NoError(t, err)

	tokens.now = func() time.Time { return start.Add(2 * time.Hour) }
	_, err = tokens.Parse(token)
	assert.Error(t, err)
}

func TestTokenRejectsOtherSecretAndAlg(t *testing.T) {
	tokens := NewTokenIssuer("test-secret", time.Hour)
	other := NewTokenIssuer("other-secret", time.Hour)

	token, _, err := other.Issue(domain.Principal{UserID: "u1", Role: domain.RoleAdmin})
	require.NoError(t, err)
	_, err = tokens.Parse(token)
	assert.Error(t, err)

	claims := Claims{UserID: "u1", RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = tokens.Parse(unsigned)
	assert.Error(t, err)
}
