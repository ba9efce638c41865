// Package auth validates session tokens issued by the external identity
// provider. The service never mints identities itself; the token's subject
// is the opaque external id used to find or lazily create the internal user.
package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims are the claims the identity provider puts in its tokens.
type SessionClaims struct {
	Phone string `json:"phone_number,omitempty"`
	jwt.RegisteredClaims
}

// ValidateSessionToken parses and verifies a provider-issued HS256 token and
// returns its claims. The Subject claim must be present.
func ValidateSessionToken(tokenString, secretKey string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	if claims.Subject == "" {
		return nil, errors.New("token missing subject")
	}

	return claims, nil
}
