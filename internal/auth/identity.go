// Package auth provides caller identity utilities for sitecheck.
// The service does not manage accounts; it accepts a signed bearer token
// from the surrounding platform and extracts the opaque user id that is
// stamped onto created_by / responded_by fields.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims represents the identity claims sitecheck understands
type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// IdentityService validates and mints identity tokens
type IdentityService struct {
	secretKey []byte
	expiry    time.Duration
	issuer    string
}

// NewIdentityService creates a new identity service with the given secret
func NewIdentityService(secret string) *IdentityService {
	return &IdentityService{
		secretKey: []byte(secret),
		expiry:    24 * time.Hour,
		issuer:    "sitecheck",
	}
}

// ValidateToken validates a bearer token and returns the claims
func (s *IdentityService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.UserID == uuid.Nil {
		return nil, fmt.Errorf("token carries no user id")
	}

	return claims, nil
}

// MintToken signs a token for a user id. Used by the CLI to hand out
// tokens for field devices that have no platform identity of their own.
func (s *IdentityService) MintToken(userID uuid.UUID, name string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: userID,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Subject:   userID.String(),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
