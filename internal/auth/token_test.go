package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_IssueResolve(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"), "todo-api", time.Hour)

	tokA, err := svc.Issue(1)
	require.NoError(t, err)
	tokB, err := svc.Issue(2)
	require.NoError(t, err)

	idA, err := svc.Resolve(tokA)
	require.NoError(t, err)
	idB, err := svc.Resolve(tokB)
	require.NoError(t, err)

	assert.Equal(t, 1, idA)
	assert.Equal(t, 2, idB)
}

func TestTokenService_SubjectIsString(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"), "todo-api", time.Hour)
	tok, err := svc.Issue(42)
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(tok, claims)
	require.NoError(t, err)
	assert.Equal(t, "42", claims["sub"])
}

func TestTokenService_Issue_InvalidUser(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"), "todo-api", time.Hour)
	_, err := svc.Issue(0)
	assert.Error(t, err)
}

func TestTokenService_Resolve_Rejects(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"), "todo-api", time.Hour)
	good, err := svc.Issue(7)
	require.NoError(t, err)

	other := NewTokenService([]byte("other-secret"), "todo-api", time.Hour)
	foreign, err := other.Issue(7)
	require.NoError(t, err)

	wrongIssuer := NewTokenService([]byte("test-secret"), "someone-else", time.Hour)
	misissued, err := wrongIssuer.Issue(7)
	require.NoError(t, err)

	expired := NewTokenService([]byte("test-secret"), "todo-api", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, err := expired.Issue(7)
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "7",
		Issuer:    "todo-api",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	nonNumeric := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "alice",
		Issuer:    "todo-api",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	badSub, err := nonNumeric.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	cases := map[string]string{
		"empty":          "",
		"blank":          "   ",
		"garbage":        "not.a.token",
		"tampered":       good + "x",
		"wrong secret":   foreign,
		"wrong issuer":   misissued,
		"expired":        stale,
		"alg none":       unsigned,
		"non-numeric id": badSub,
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Resolve(tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
