// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate concerns that don't naturally fit within a single entity.
package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims defines the custom claims for operator tokens.
type Claims struct {
	Roles []string `json:"roles,omitempty"`
	jwt.RegisteredClaims
}

// HasRole reports whether the claims grant role.
func (c *Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}

	return false
}

// TokenService defines the interface for generating and validating JWTs.
// This abstracts the details of token creation from the delivery layer.
type TokenService interface {
	// GenerateToken creates a signed access token for subject with the given roles.
	GenerateToken(subject string, roles []string, ttl time.Duration) (string, error)

	// ValidateToken checks the validity of a token string and returns its claims.
	ValidateToken(tokenString string) (*Claims, error)
}
