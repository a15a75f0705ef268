package stubapi

import (
	"crypto/rand"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters. Light on memory compared to production tunings: the
// stub server exists for development and tests, not for hosting accounts.
const (
	argonTime    uint32 = 1
	argonMemory  uint32 = 16 * 1024
	argonThreads uint8  = 1
	argonKeyLen  uint32 = 32
	saltLen             = 16
)

func randSalt() ([]byte, error) {
	b := make([]byte, saltLen)
	_, err := rand.Read(b)
	return b, err
}

func hashPassword(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

func verifyPassword(password, salt, expected []byte) bool {
	got := hashPassword(password, salt)
	return subtle.ConstantTimeCompare(got, expected) == 1
}
