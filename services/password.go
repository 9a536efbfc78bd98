package services

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Constants for Argon2 parameters
const (
	memory      = 64 * 1024
	iterations  = 3
	parallelism = 2
	keyLength   = 32
	saltLength  = 16
)

var ErrInvalidHash = errors.New("invalid stored password format")

// HashPassword returns an argon2id hash encoded as "salt$hash".
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", errors.New("failed to generate salt")
	}

	hash := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, keyLength)

	encodedSalt := base64.RawStdEncoding.EncodeToString(salt)
	encodedHash := base64.RawStdEncoding.EncodeToString(hash)
	return encodedSalt + "$" + encodedHash, nil
}

// VerifyPassword verifies if the provided password matches the stored hash
func VerifyPassword(storedPassword, providedPassword string) (bool, error) {
	salt, storedHash, ok := strings.Cut(storedPassword, "$")
	if !ok {
		return false, ErrInvalidHash
	}

	saltBytes, err := base64.RawStdEncoding.DecodeString(salt)
	if err != nil {
		return false, ErrInvalidHash
	}
	hashBytes, err := base64.RawStdEncoding.DecodeString(storedHash)
	if err != nil {
		return false, ErrInvalidHash
	}

	computed := argon2.IDKey([]byte(providedPassword), saltBytes, iterations, memory, parallelism, uint32(len(hashBytes)))
	return subtle.ConstantTimeCompare(computed, hashBytes) == 1, nil
}

// ComparePasswords reports whether plainPassword matches storedHash. A
// malformed hash never matches.
func ComparePasswords(storedHash, plainPassword string) bool {
	match, err := VerifyPassword(storedHash, plainPassword)
	return err == nil && match
}
