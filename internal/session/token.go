// Package session issues and verifies the signed tokens carried by the
// dashboard's session cookie. Tokens are HS256 JWTs holding the account's
// email and role; the store is never consulted during verification.
package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lankamar/bicauth/internal/common"
)

// Claims extends the registered claim set with the account identity the
// dashboard needs on every request.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// GenerateToken signs a session token for email/role valid for
// validityDuration from now.
func GenerateToken(email, role string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		Email: email,
		Role:  role,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies signature and expiry and returns the claims. Any
// failure — malformed string, wrong key, expired token — comes back as
// common.ErrInvalidSessionToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, common.ErrInvalidSessionToken
	}

	if !token.Valid {
		return nil, common.ErrInvalidSessionToken
	}

	return claims, nil
}
