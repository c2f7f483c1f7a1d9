package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/flowbit/backend/internal/models"
)

const testSecret = "test-secret-at-least-32-bytes-long!!"

func TestIssueAndVerify(t *testing.T) {
	t.Parallel()

	m := NewTokenManager(testSecret, time.Hour)
	tok, err := m.Issue("user-123")
	require.NoError(t, err)

	id, err := m.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", id)
}

func TestIssue_UniqueTokenIDs(t *testing.T) {
	t.Parallel()

	m := NewTokenManager(testSecret, time.Hour)
	a, err := m.Issue("u1")
	require.NoError(t, err)
	b, err := m.Issue("u1")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	m := NewTokenManager(testSecret, time.Hour)
	issued := time.Now().Add(-2 * time.Hour)
	m.now = func() time.Time { return issued }
	tok, err := m.Issue("u1")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Verify(tok)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidToken)
	assert.True(t, IsExpired(err))
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewTokenManager("right-secret-right-secret-right-secret", time.Hour).Issue("u2")
	require.NoError(t, err)

	_, err = NewTokenManager("wrong-secret-wrong-secret-wrong-secret", time.Hour).Verify(tok)
	assert.ErrorIs(t, err, models.ErrInvalidToken)
	assert.False(t, IsExpired(err))
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	m := NewTokenManager(testSecret, time.Hour)
	for _, tok := range []string{"", "not.a.jwt", strings.Repeat("a", 40)} {
		_, err := m.Verify(tok)
		assert.ErrorIs(t, err, models.ErrInvalidToken, "token %q", tok)
	}
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	claims := jwt.RegisteredClaims{
		Subject:   "u3",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = NewTokenManager(testSecret, time.Hour).Verify(tok)
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}

func TestVerify_RequiresExpiryAndSubject(t *testing.T) {
	t.Parallel()

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "u4"}).
		SignedString([]byte(testSecret))
	require.NoError(t, err)
	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	m := NewTokenManager(testSecret, time.Hour)
	_, err = m.Verify(noExp)
	assert.ErrorIs(t, err, models.ErrInvalidToken)
	_, err = m.Verify(noSub)
	assert.ErrorIs(t, err, models.ErrInvalidToken)
}
