package internal

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// SessionID is a 32-byte high-entropy session identifier.
type SessionID [32]byte

func NewSessionID() (SessionID, error) {
	var sid SessionID
	_, err := rand.Read(sid[:])
	return sid, err
}

func (s SessionID) Bytes() []byte {
	return s[:]
}

func (s SessionID) String() string {
	// hex, compact, cookie- and key-safe
	return hex.EncodeToString(s[:])
}

func ParseSessionID(sessionID string) (SessionID, error) {
	var sid SessionID

	raw, err := hex.DecodeString(sessionID)
	if err != nil {
		return sid, err
	}
	if len(raw) != len(sid) {
		return sid, errors.New("invalid session id size")
	}

	copy(sid[:], raw)
	return sid, nil
}

// NewCode generates a zero-padded numeric verification code, uniformly
// distributed over [0, 10^digits).
func NewCode(digits int) (string, error) {
	if digits < 6 || digits > 10 {
		return "", errors.New("invalid code digits")
	}

	var b strings.Builder
	b.Grow(digits)

	max := big.NewInt(10)
	for i := 0; i < digits; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}

	code := b.String()
	if len(code) != digits {
		return "", fmt.Errorf("invalid code generation length")
	}
	return code, nil
}

// HashCode returns the SHA-256 digest of a verification code. Only digests
// are kept at rest; raw codes never touch the store.
func HashCode(code string) [32]byte {
	return sha256.Sum256([]byte(code))
}

// EncodeDigest renders a digest in the hex form stored in Redis.
func EncodeDigest(digest [32]byte) string {
	return hex.EncodeToString(digest[:])
}

// DecodeDigest parses the stored hex form back into a digest.
func DecodeDigest(encoded string) ([32]byte, error) {
	var digest [32]byte

	raw, err := hex.DecodeString(encoded)
	if err != nil {
		return digest, err
	}
	if len(raw) != len(digest) {
		return digest, errors.New("invalid digest size")
	}

	copy(digest[:], raw)
	return digest, nil
}
