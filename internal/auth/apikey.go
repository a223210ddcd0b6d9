// internal/auth/apikey.go
package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"sync"

	"golang.org/x/crypto/argon2"
)

// HashKey generates a salted Argon2id hash of an API key.
func HashKey(key string) (string, string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", "", err
	}

	hash := argon2.IDKey([]byte(key), salt, 1, 64*1024, 4, 32)

	encodedHash := base64.StdEncoding.EncodeToString(hash)
	encodedSalt := base64.StdEncoding.EncodeToString(salt)

	return encodedHash, encodedSalt, nil
}

// VerifyKey compares an API key with a salted hash.
func VerifyKey(key, salt, hash string) (bool, error) {
	decodedSalt, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return false, fmt.Errorf("failed to decode salt: %w", err)
	}

	decodedHash, err := base64.StdEncoding.DecodeString(hash)
	if err != nil {
		return false, fmt.Errorf("failed to decode hash: %w", err)
	}

	comparisonHash := argon2.IDKey([]byte(key), decodedSalt, 1, 64*1024, 4, 32)

	return subtle.ConstantTimeCompare(decodedHash, comparisonHash) == 1, nil
}

type keyEntry struct {
	principal string
	salt      string
	hash      string
}

// KeyRing maps API keys to principals without storing the keys themselves.
// Lookup cost is linear in the number of registered keys, which is fine for
// the handful of operator credentials a club carries.
type KeyRing struct {
	mu      sync.RWMutex
	entries []keyEntry
}

func NewKeyRing() *KeyRing {
	return &KeyRing{}
}

// Register hashes and stores a key for a principal.
func (r *KeyRing) Register(principal, key string) error {
	hash, salt, err := HashKey(key)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, keyEntry{principal: principal, salt: salt, hash: hash})
	return nil
}

// Lookup resolves an API key to its principal. The empty string means no
// match.
func (r *KeyRing) Lookup(key string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		ok, err := VerifyKey(key, e.salt, e.hash)
		if err == nil && ok {
			return e.principal
		}
	}
	return ""
}
