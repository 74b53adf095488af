package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheck(t *testing.T) {
	hash, err := HashPasswordAsBcrypt("admin123")
	require.NoError(t, err)
	assert.NotEqual(t, "admin123", hash)
	assert.True(t, CheckPasswordHash(hash, "admin123"))
	assert.False(t, CheckPasswordHash(hash, "admin124"))
}

func TestRejectsShortPassword(t *testing.T) {
	_, err := HashPasswordAsBcrypt("abc")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestCheckNonBcryptValue(t *testing.T) {
	assert.False(t, CheckPasswordHash("", "x"))
	assert.False(t, CheckPasswordHash("pbkdf2:sha256:600000$abc$def", "x"))
}
