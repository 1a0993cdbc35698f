package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
)

// NewResetSecret 生成 256 位随机重置口令和它的 sha256 摘要。
// 口令发给用户，库里只存摘要——库泄漏也拿不到可用口令。
func NewResetSecret() (secret, digest string, err error) {
	buf := make([]byte, 32)
	if _, err = rand.Read(buf); err != nil {
		return "", "", err
	}
	secret = hex.EncodeToString(buf)
	return secret, ResetDigest(secret), nil
}

// ResetDigest 确定性摘要（不加盐），同一口令恒等同一摘要，支持按摘要查库
func ResetDigest(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
