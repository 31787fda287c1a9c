package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for at-rest key derivation
const (
	// Argon2Time - number of iterations (time cost)
	Argon2Time = 1
	// Argon2Memory - memory in KB (64MB = 64*1024 KB)
	Argon2Memory = 64 * 1024
	// Argon2Threads - degree of parallelism
	Argon2Threads = 4
	// Argon2KeyLen - derived key length in bytes
	Argon2KeyLen = 32
	// SaltSize - salt size in bytes
	SaltSize = 32
)

// GenerateSalt returns a cryptographically random salt.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	_, err := rand.Read(salt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// GenerateSaltBase64 returns a cryptographically random salt in Base64.
func GenerateSaltBase64() (string, error) {
	salt, err := GenerateSalt()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(salt), nil
}

// DeriveKey derives the 32-byte at-rest encryption key for the local
// store from a passphrase, the stable client id and a salt, using
// Argon2id.
func DeriveKey(passphrase, clientID string, salt []byte) ([]byte, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("passphrase cannot be empty")
	}
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("salt must be %d bytes, got %d", SaltSize, len(salt))
	}

	input := []byte(passphrase + clientID)
	return argon2.IDKey(input, salt, Argon2Time, Argon2Memory, Argon2Threads, Argon2KeyLen), nil
}

// DeriveKeyFromBase64Salt is DeriveKey with a Base64-encoded salt, the
// form the salt is persisted in.
func DeriveKeyFromBase64Salt(passphrase, clientID, saltBase64 string) ([]byte, error) {
	salt, err := base64.StdEncoding.DecodeString(saltBase64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode salt: %w", err)
	}
	return DeriveKey(passphrase, clientID, salt)
}
