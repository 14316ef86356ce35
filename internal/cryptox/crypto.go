// Package cryptox implements the salted password schemes used for clinic
// user accounts.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/adhamfakhereldeen/Cyber/internal/common"
	"golang.org/x/crypto/argon2"
)

// Supported password schemes.
const (
	SchemeSHA256   = "sha256"
	SchemeArgon2id = "argon2id"
)

// SaltSize is the number of random bytes in a salt; the stored salt is hex.
const SaltSize = 16

// NewSalt returns a fresh hex-encoded random salt.
func NewSalt() (string, error) {
	return common.MakeRandHexString(SaltSize)
}

// NormalizeScheme maps the empty scheme of legacy records to sha256.
func NormalizeScheme(scheme string) string {
	if scheme == "" {
		return SchemeSHA256
	}
	return scheme
}

// ValidScheme reports whether scheme is known.
func ValidScheme(scheme string) bool {
	switch NormalizeScheme(scheme) {
	case SchemeSHA256, SchemeArgon2id:
		return true
	}
	return false
}

// HashPassword returns the hex hash of salt+password under scheme.
func HashPassword(scheme, salt, password string) (string, error) {
	switch NormalizeScheme(scheme) {
	case SchemeSHA256:
		sum := sha256.Sum256([]byte(salt + password))
		return hex.EncodeToString(sum[:]), nil
	case SchemeArgon2id:
		return hex.EncodeToString(deriveKey([]byte(password), []byte(salt))), nil
	default:
		return "", fmt.Errorf("%w: unknown password scheme %q", common.ErrInvalidArgument, scheme)
	}
}

// VerifyPassword recomputes the hash and compares it in constant time.
func VerifyPassword(scheme, salt, password, hash string) bool {
	computed, err := HashPassword(scheme, salt, password)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) == 1
}

func deriveKey(password []byte, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}
