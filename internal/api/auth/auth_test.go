package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-secret")

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken("student1", 1001, time.Now().Add(time.Hour), secret)
	require.NoError(t, err)

	userID, err := ParseAccessToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, int32(1001), userID)

	// Zero expiration means the token never expires.
	token, err = GenerateAccessToken("admin", 1, time.Time{}, secret)
	require.NoError(t, err)
	userID, err = ParseAccessToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, int32(1), userID)
}

func TestParseAccessTokenRejects(t *testing.T) {
	expired, err := GenerateAccessToken("student1", 1001, time.Now().Add(-time.Minute), secret)
	require.NoError(t, err)
	_, err = ParseAccessToken(expired, secret)
	assert.Error(t, err)

	valid, err := GenerateAccessToken("student1", 1001, time.Now().Add(time.Hour), secret)
	require.NoError(t, err)
	_, err = ParseAccessToken(valid, []byte("other-secret"))
	assert.Error(t, err)

	_, err = ParseAccessToken("", secret)
	assert.Error(t, err)

	otherKid := jwt.NewWithClaims(jwt.SigningMethodHS256, &ClaimsMessage{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   Issuer,
			Audience: jwt.ClaimStrings{AccessTokenAudienceName},
			Subject:  "1001",
		},
	})
	otherKid.Header["kid"] = "v0"
	signed, err := otherKid.SignedString(secret)
	require.NoError(t, err)
	_, err = ParseAccessToken(signed, secret)
	assert.Error(t, err)
}
