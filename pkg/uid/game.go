package uid

import (
	"crypto/rand"
	"encoding/hex"
)

func randomHex(n int) string {
	bytes := make([]byte, n)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// GenerateGameID returns a random 32-char hex id
func GenerateGameID() string {
	return randomHex(16)
}

// GenerateGuestID returns a "guest_"-prefixed random id
func GenerateGuestID() string {
	return "guest_" + randomHex(8)
}
