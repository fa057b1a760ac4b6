package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	j := NewJWT("secret", "webmark")

	token, err := j.Issue("user-1", time.Hour)
	require.NoError(t, err)

	userID, err := j.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	userID, err = j.Verify("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestVerifyRejects(t *testing.T) {
	j := NewJWT("secret", "webmark")
	good, err := j.Issue("user-1", time.Hour)
	require.NoError(t, err)

	other, err := NewJWT("other-secret", "webmark").Issue("user-1", time.Hour)
	require.NoError(t, err)

	wrongIssuer, err := NewJWT("secret", "someone-else").Issue("user-1", time.Hour)
	require.NoError(t, err)

	expired := NewJWT("secret", "webmark")
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.Issue("user-1", time.Hour)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: "webmark", IssuedAt: jwt.NewNumericDate(time.Now())},
		UserID:           "user-1",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: "user-1"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"empty", "", ErrMissingToken},
		{"garbage", "not.a.token", ErrInvalidToken},
		{"wrong secret", other, ErrInvalidToken},
		{"wrong issuer", wrongIssuer, ErrInvalidToken},
		{"expired", old, ErrInvalidToken},
		{"no expiry", noExp, ErrInvalidToken},
		{"alg none", unsigned, ErrInvalidToken},
		{"tampered", good + "x", ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := j.Verify(tt.token)
			if !errors.Is(err, tt.want) {
				t.Errorf("Verify() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestIssueRequiresUser(t *testing.T) {
	_, err := NewJWT("secret", "").Issue(" ", time.Hour)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
