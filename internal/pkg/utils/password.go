package utils

import (
	"crypto/subtle"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// IsHashed reports whether stored is a bcrypt hash rather than a legacy
// plaintext password.
func IsHashed(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$")
}

// CheckPassword compares given against stored. needsRehash is true when the
// match was against a legacy plaintext value.
func CheckPassword(stored, given string) (ok, needsRehash bool) {
	if IsHashed(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil, false
	}
	ok = subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
	return ok, ok
}

var (
	dummyOnce sync.Once
	dummyHash []byte
)

// RejectUnknown runs one bcrypt compare against a throwaway hash, so a
// lookup for a missing account takes as long as a wrong password.
func RejectUnknown(given string) {
	dummyOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("no-such-account"), bcrypt.DefaultCost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(given))
}
