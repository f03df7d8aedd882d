/*
Package randx provides cryptographically secure random identifiers.

It generates fallback session identifiers for clients without a stable
wallet-derived value, and UUID verification ids for the age-verification flow.
*/
package randx

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"
)

const (
	// Base62Chars is the alphabet used for random identifier suffixes.
	Base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// SessionIDPrefix marks identifiers generated here rather than derived
	// from a wallet address.
	SessionIDPrefix = "sess_"

	// SessionIDRawLength is the length of the random part of a session id.
	SessionIDRawLength = 12
)

// base62Len is the alphabet size as a big.Int bound for crypto/rand.
var base62Len = big.NewInt(int64(len(Base62Chars)))

// SessionID generates a random fallback session identifier. Clients with a
// connected wallet derive their id from the wallet instead and never call this.
func SessionID() (string, error) {
	suffix := make([]byte, SessionIDRawLength)

	for i := range suffix {
		num, err := rand.Int(rand.Reader, base62Len)
		if err != nil {
			return "", fmt.Errorf("failed to generate random session id: %w", err)
		}
		suffix[i] = Base62Chars[num.Int64()]
	}

	return SessionIDPrefix + string(suffix), nil
}

// VerificationID generates a UUID v4 string keying one verification attempt.
func VerificationID() string {
	return uuid.New().String()
}

// IsValidSessionID reports whether id looks like a fallback session id
// generated by SessionID.
func IsValidSessionID(id string) bool {
	if !strings.HasPrefix(id, SessionIDPrefix) {
		return false
	}

	raw := id[len(SessionIDPrefix):]
	if len(raw) != SessionIDRawLength {
		return false
	}

	for _, char := range raw {
		if !strings.ContainsRune(Base62Chars, char) {
			return false
		}
	}

	return true
}
