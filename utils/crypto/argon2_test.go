package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndCompare(t *testing.T) {
	hash, err := GenerateFromPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	match, err := ComparePasswordAndHash("correct horse battery staple", hash)
	assert.NoError(t, err)
	assert.True(t, match)

	match, err = ComparePasswordAndHash("wrong password", hash)
	assert.NoError(t, err)
	assert.False(t, match)
}

func TestGenerate_UniqueSalts(t *testing.T) {
	first, err := GenerateFromPassword("secret")
	require.NoError(t, err)
	second, err := GenerateFromPassword("secret")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestCompare_MalformedHash(t *testing.T) {
	_, err := ComparePasswordAndHash("secret", "not-a-hash")
	assert.Error(t, err)

	_, err = ComparePasswordAndHash("secret", "$bcrypt$v=19$m=65536,t=2,p=4$abc$def")
	assert.Error(t, err)
}
