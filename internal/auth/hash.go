package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/dmitrijs2005/ndisdirectory/internal/common"
	"github.com/dmitrijs2005/ndisdirectory/internal/cryptox"
)

// Password scheme names accepted in configuration.
const (
	SchemeLegacy   = "legacy"
	SchemeArgon2id = "argon2id"
)

// Hasher derives and checks stored password hashes.
type Hasher interface {
	Scheme() string
	Hash(password string) (string, error)
	// Owns reports whether stored was produced by this scheme.
	Owns(stored string) bool
	Verify(password, stored string) bool
}

// NewHasher returns the Hasher for scheme.
func NewHasher(scheme string) (Hasher, error) {
	switch scheme {
	case SchemeLegacy:
		return LegacyHasher{}, nil
	case SchemeArgon2id:
		return Argon2Hasher{}, nil
	default:
		return nil, fmt.Errorf("unknown password scheme %q", scheme)
	}
}

const legacySalt = "ndis_salt_2025"

// LegacyHasher reproduces the hash written by the web client: a 32-bit
// rolling sum over the UTF-16 code units, suffixed with a fixed salt and
// base64-encoded. It offers no real protection; it exists so accounts created
// by that client keep working.
type LegacyHasher struct{}

func (LegacyHasher) Scheme() string { return SchemeLegacy }

func (LegacyHasher) Hash(password string) (string, error) {
	return legacyHash(password), nil
}

func (LegacyHasher) Owns(stored string) bool {
	return !strings.HasPrefix(stored, argon2Prefix)
}

func (LegacyHasher) Verify(password, stored string) bool {
	return subtle.ConstantTimeCompare([]byte(legacyHash(password)), []byte(stored)) == 1
}

func legacyHash(password string) string {
	var h int32
	for _, unit := range utf16.Encode([]rune(password)) {
		h = (h << 5) - h + int32(unit)
	}
	return base64.StdEncoding.EncodeToString([]byte(strconv.FormatInt(int64(h), 10) + legacySalt))
}

const (
	argon2Prefix   = SchemeArgon2id + "$"
	argon2SaltSize = 16
)

// Argon2Hasher stores "argon2id$<salt>$<key>" with both parts base64-encoded.
type Argon2Hasher struct{}

func (Argon2Hasher) Scheme() string { return SchemeArgon2id }

func (Argon2Hasher) Hash(password string) (string, error) {
	salt := common.GenerateRandByteArray(argon2SaltSize)
	pw := []byte(password)
	defer common.WipeByteArray(pw)

	key := cryptox.DeriveKey(pw, salt)
	enc := base64.RawStdEncoding
	return argon2Prefix + enc.EncodeToString(salt) + "$" + enc.EncodeToString(key), nil
}

func (Argon2Hasher) Owns(stored string) bool {
	return strings.HasPrefix(stored, argon2Prefix)
}

func (Argon2Hasher) Verify(password, stored string) bool {
	parts := strings.Split(strings.TrimPrefix(stored, argon2Prefix), "$")
	if len(parts) != 2 {
		return false
	}
	enc := base64.RawStdEncoding
	salt, err := enc.DecodeString(parts[0])
	if err != nil {
		return false
	}
	want, err := enc.DecodeString(parts[1])
	if err != nil {
		return false
	}

	pw := []byte(password)
	defer common.WipeByteArray(pw)
	return subtle.ConstantTimeCompare(cryptox.DeriveKey(pw, salt), want) == 1
}
