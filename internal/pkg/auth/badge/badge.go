/*
Package badge mints and verifies age badges.

An age badge is a short-lived HMAC-signed JWT issued after a successful
age-verification, carrying the verification id and the verified older-than
attribute. It is not an authentication credential: presence session ids stay
anonymous, and the badge only unlocks the age-gated room when the gate is
enabled in configuration.
*/
package badge

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt"
)

const (
	// Expiration is how long a minted badge stays valid. Long enough to cover
	// a play session, short enough that a leaked badge goes stale.
	Expiration = 12 * time.Hour

	// Issuer identifies badges minted by this server.
	Issuer = "frenguin-server"
)

// Claims is the payload carried by an age badge.
type Claims struct {
	// VerificationID ties the badge to the verification attempt that earned it.
	VerificationID string `json:"vid"`

	// OlderThan is the age threshold the external verifier attested.
	OlderThan string `json:"olderThan"`

	jwt.StandardClaims
}

// Mint signs a new age badge for the given verification attempt.
func Mint(verificationID, olderThan, secret string) (string, error) {
	now := time.Now()

	claims := &Claims{
		VerificationID: verificationID,
		OlderThan:      olderThan,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(Expiration).Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(secret))
}

// Parse validates a badge string and returns its claims.
func Parse(tokenString, secret string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid or expired badge")
	}

	return claims, nil
}
