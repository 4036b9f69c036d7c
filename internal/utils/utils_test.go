package utils

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("Secr3t!pw", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "Secr3t!pw", hash)
	assert.True(t, VerifyPassword(hash, "Secr3t!pw"))
	assert.False(t, VerifyPassword(hash, "secr3t!pw"))
	assert.False(t, VerifyPassword("not-a-hash", "Secr3t!pw"))
}

func TestHashPasswordLengthBound(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", MaxPasswordBytes)+"1!", bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrPasswordTooLong)

	_, err = HashPassword(strings.Repeat("a", MaxPasswordBytes-2)+"1!", bcrypt.MinCost)
	assert.NoError(t, err)
}

func TestAccessToken(t *testing.T) {
	tok, err := NewAccessToken("k1", "alice", "CUSTOMER", 5)
	require.NoError(t, err)

	cl, err := ParseAccessToken("k1", tok.Token)
	require.NoError(t, err)
	assert.Equal(t, Claims{Username: "alice", Role: "CUSTOMER"}, cl)

	_, err = ParseAccessToken("other", tok.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := NewAccessToken("k1", "alice", "CUSTOMER", -5)
	require.NoError(t, err)
	_, err = ParseAccessToken("k1", expired.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = ParseAccessToken("k1", "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestQRCodePNG(t *testing.T) {
	png, err := QRCodePNG("ID:ab12cd34|Movie:Leo|Seats:A1, A2", 0)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}
