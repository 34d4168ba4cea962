package storage

import (
	"encoding/base64"
	"encoding/json"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/ndisdirectory/internal/cryptox"
	"github.com/golang-jwt/jwt/v5"
)

// Codec turns a serialized JSON document into the text stored under a key
// and back. Decode reports false for anything it cannot reverse; callers
// treat that as an absent value.
type Codec interface {
	Encode(doc []byte) (string, error)
	Decode(stored string) ([]byte, bool)
}

// JSONCodec stores documents as plain JSON.
type JSONCodec struct{}

func (JSONCodec) Encode(doc []byte) (string, error) {
	return string(doc), nil
}

func (JSONCodec) Decode(stored string) ([]byte, bool) {
	if !json.Valid([]byte(stored)) {
		return nil, false
	}
	return []byte(stored), true
}

// ObfuscatedCodec percent-encodes the JSON text the way browsers'
// encodeURIComponent does and base64-encodes the result. Anyone can reverse
// it; it only keeps the data from being readable at a glance.
type ObfuscatedCodec struct{}

func (ObfuscatedCodec) Encode(doc []byte) (string, error) {
	return base64.StdEncoding.EncodeToString([]byte(escapeComponent(string(doc)))), nil
}

func (ObfuscatedCodec) Decode(stored string) ([]byte, bool) {
	escaped, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return nil, false
	}
	doc, err := url.PathUnescape(string(escaped))
	if err != nil || !utf8.ValidString(doc) || !json.Valid([]byte(doc)) {
		return nil, false
	}
	return []byte(doc), true
}

const upperHex = "0123456789ABCDEF"

func escapeComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperHex[c>>4])
		b.WriteByte(upperHex[c&15])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}

// SealedCodec encrypts documents with AES-GCM under a device key.
type SealedCodec struct {
	Key []byte
}

func (c SealedCodec) Encode(doc []byte) (string, error) {
	sealed, err := cryptox.Seal(doc, c.Key)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (c SealedCodec) Decode(stored string) ([]byte, bool) {
	sealed, err := base64.StdEncoding.DecodeString(stored)
	if err != nil {
		return nil, false
	}
	doc, err := cryptox.Open(sealed, c.Key)
	if err != nil || !json.Valid(doc) {
		return nil, false
	}
	return doc, true
}

// TokenCodec stores documents inside an HS256-signed JWT. Tokens that fail
// verification or have expired decode as absent.
type TokenCodec struct {
	Secret []byte
	// TTL bounds the token lifetime; zero means no expiry.
	TTL time.Duration
	Now func() time.Time
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Data json.RawMessage `json:"dat"`
}

func (c TokenCodec) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c TokenCodec) Encode(doc []byte) (string, error) {
	now := c.now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{IssuedAt: jwt.NewNumericDate(now)},
		Data:             doc,
	}
	if c.TTL > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(c.TTL))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.Secret)
}

func (c TokenCodec) Decode(stored string) ([]byte, bool) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(stored, claims, func(t *jwt.Token) (any, error) {
		return c.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(c.now))
	if err != nil || !token.Valid || !json.Valid(claims.Data) {
		return nil, false
	}
	return claims.Data, true
}
