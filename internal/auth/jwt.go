// Package auth verifies bearer tokens issued by the identity provider.
// Token issuance itself lives outside this service; only HS256 verification
// of the subject and role claims happens here.
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/heartmarshall/bookshelf-backend/pkg/ctxutil"
)

// JWTVerifier validates JWT access tokens.
type JWTVerifier struct {
	secret []byte
	issuer string
}

// NewJWTVerifier creates a verifier. secret must be at least 32 characters
// for HS256 security (enforced by config validation).
func NewJWTVerifier(secret, issuer string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret), issuer: issuer}
}

// accessClaims extends standard JWT claims with the caller's role.
type accessClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// Verify parses and validates a JWT access token and returns the caller
// identity (user ID from the subject claim plus role).
func (v *JWTVerifier) Verify(tokenString string) (ctxutil.Identity, error) {
	if tokenString == "" {
		return ctxutil.Identity{}, fmt.Errorf("token is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &accessClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return ctxutil.Identity{}, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid {
		return ctxutil.Identity{}, fmt.Errorf("invalid token claims")
	}

	if claims.Issuer != v.issuer {
		return ctxutil.Identity{}, fmt.Errorf("invalid issuer: expected %s, got %s", v.issuer, claims.Issuer)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctxutil.Identity{}, fmt.Errorf("invalid subject UUID: %w", err)
	}

	return ctxutil.Identity{UserID: userID, Role: claims.Role}, nil
}
