package services

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
)

const (
	DefaultAPIKeyPrefix = "sk_"
	apiKeyRandomLen     = 32
)

// GenerateAPIKey returns prefix followed by 64 lowercase hex characters of
// crypto-random data. It panics if the system random source fails.
func GenerateAPIKey(prefix string) string {
	randomBytes := make([]byte, apiKeyRandomLen)
	if _, err := rand.Read(randomBytes); err != nil {
		panic("crypto/rand unavailable: " + err.Error())
	}
	return prefix + hex.EncodeToString(randomBytes)
}

// IsAPIKeyFormat reports whether key looks like something GenerateAPIKey(prefix) produced.
func IsAPIKeyFormat(prefix, key string) bool {
	if !strings.HasPrefix(key, prefix) {
		return false
	}
	rest := key[len(prefix):]
	if len(rest) != apiKeyRandomLen*2 {
		return false
	}
	for _, r := range rest {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
