package authtoken

import (
	"testing"
	"time"

	"explorerhub/internal/common"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManager_RejectsBadSettings(t *testing.T) {
	_, err := NewManager("", time.Minute)
	assert.Error(t, err)
	_, err = NewManager("secret", 0)
	assert.Error(t, err)
}

func TestIssueAndParse(t *testing.T) {
	m, err := NewManager("secret", 30*time.Minute)
	require.NoError(t, err)

	signed, err := m.Issue(42, "business", "owner@example.com")
	require.NoError(t, err)

	claims, err := m.Parse(signed)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "business", claims.Role)
	assert.Equal(t, "owner@example.com", claims.Email)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestParse_Expired(t *testing.T) {
	m, err := NewManager("secret", time.Minute)
	require.NoError(t, err)
	signed, err := m.Issue(1, "client", "a@example.com")
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = m.Parse(signed)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestParse_WrongSecret(t *testing.T) {
	issuer, err := NewManager("secret-a", time.Minute)
	require.NoError(t, err)
	verifier, err := NewManager("secret-b", time.Minute)
	require.NoError(t, err)

	signed, err := issuer.Issue(1, "client", "a@example.com")
	require.NoError(t, err)
	_, err = verifier.Parse(signed)
	assert.ErrorIs(t, err, common.ErrTokenInvalid)
}

func TestParse_RejectsOtherAlgorithms(t *testing.T) {
	m, err := NewManager("secret", time.Minute)
	require.NoError(t, err)

	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = m.Parse(signed)
	assert.ErrorIs(t, err, common.ErrTokenInvalid)
}

func TestParse_RejectsNonNumericSubject(t *testing.T) {
	m, err := NewManager("secret", time.Minute)
	require.NoError(t, err)

	claims := Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "abc",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = m.Parse(signed)
	assert.ErrorIs(t, err, common.ErrTokenInvalid)
}

func TestParse_Garbage(t *testing.T) {
	m, err := NewManager("secret", time.Minute)
	require.NoError(t, err)
	_, err = m.Parse("not-a-token")
	assert.ErrorIs(t, err, common.ErrTokenInvalid)
}
