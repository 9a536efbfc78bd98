package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret!pw")
	require.NoError(t, err)
	assert.Contains(t, hash, "$")

	ok, err := VerifyPassword(hash, "s3cret!pw")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword(hash, "wrong!pw1")
	require.NoError(t, err)
	assert.False(t, ok)

	again, err := HashPassword("s3cret!pw")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "salts should differ")
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	for _, stored := range []string{"", "nodollar", "!!!$abc", "YWJj$***"} {
		_, err := VerifyPassword(stored, "anything")
		assert.ErrorIs(t, err, ErrInvalidHash, stored)
		assert.False(t, ComparePasswords(stored, "anything"))
	}
}
