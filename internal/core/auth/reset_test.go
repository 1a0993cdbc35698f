package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResetSecret(t *testing.T) {
	secret, digest, err := NewResetSecret()
	require.NoError(t, err)

	// 32 字节随机 → 64 个 hex 字符
	assert.Len(t, secret, 64)
	assert.Len(t, digest, 64)
	assert.NotEqual(t, secret, digest)

	// 摘要可确定性重算，支持按摘要查库
	assert.Equal(t, digest, ResetDigest(secret))

	s2, d2, err := NewResetSecret()
	require.NoError(t, err)
	assert.NotEqual(t, secret, s2)
	assert.NotEqual(t, digest, d2)
}
