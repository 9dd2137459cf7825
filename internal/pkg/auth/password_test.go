package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "s3cret-password", hash)

	assert.True(t, CheckPassword(hash, "s3cret-password"))
	assert.False(t, CheckPassword(hash, "wrong-password"))
	assert.False(t, CheckPassword("", "s3cret-password"))
}

func TestCreateResetToken(t *testing.T) {
	raw, hashed, err := CreateResetToken()
	require.NoError(t, err)
	assert.Len(t, raw, 64)
	assert.Len(t, hashed, 64)
	assert.NotEqual(t, raw, hashed)

	// The stored digest must be recomputable from the raw token.
	assert.Equal(t, hashed, HashResetToken(raw))

	raw2, _, err := CreateResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, raw, raw2)
}

func TestPasswordChangedAfter(t *testing.T) {
	issuedAt := time.Now()

	assert.False(t, PasswordChangedAfter(nil, issuedAt))

	before := issuedAt.Add(-time.Minute)
	assert.False(t, PasswordChangedAfter(&before, issuedAt))

	after := issuedAt.Add(time.Minute)
	assert.True(t, PasswordChangedAfter(&after, issuedAt))
}
