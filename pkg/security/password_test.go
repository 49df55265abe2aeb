package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hasher := NewBcryptHasher(4)

	hash, err := hasher.Hash("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)

	ok, err := hasher.Verify("secret", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = hasher.Verify("not-the-password", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashIsSalted(t *testing.T) {
	hasher := NewBcryptHasher(4)

	first, err := hasher.Hash("secret")
	require.NoError(t, err)
	second, err := hasher.Hash("secret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)

	for _, hash := range []string{first, second} {
		ok, err := hasher.Verify("secret", hash)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestEmptyPasswordRejected(t *testing.T) {
	hasher := NewBcryptHasher(4)

	_, err := hasher.Hash("")
	assert.ErrorIs(t, err, ErrEmptyPassword)

	hash, err := hasher.Hash("secret")
	require.NoError(t, err)

	_, err = hasher.Verify("", hash)
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestCostOutOfRangeFallsBack(t *testing.T) {
	hasher := NewBcryptHasher(99)

	hash, err := hasher.Hash("secret")
	require.NoError(t, err)

	ok, err := hasher.Verify("secret", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}
