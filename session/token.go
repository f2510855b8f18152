package session

import (
	"fmt"

	"github.com/golang-jwt/jwt/v4"

	"github.com/vasastore/storefront-client/models"
)

// claims is the token payload subset the client cares about.
type claims struct {
	UserID   int
	Username string
	RoleID   int
}

// decodeClaims reads the token's payload segment without verifying the
// signature. A token that cannot be decoded, or that lacks a username claim,
// always yields an error and never a partially-populated session.
func decodeClaims(tokenStr string) (*claims, error) {
	parser := jwt.NewParser()
	token, _, err := parser.ParseUnverified(tokenStr, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("undecodable token: %w", err)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	c := &claims{}
	c.UserID = intClaim(mapClaims, "user_id", "id")
	c.RoleID = intClaim(mapClaims, "role_id", "role")
	if name, ok := mapClaims["username"].(string); ok {
		c.Username = name
	} else if name, ok := mapClaims["name"].(string); ok {
		c.Username = name
	}
	if c.Username == "" {
		return nil, fmt.Errorf("token payload missing username claim")
	}
	return c, nil
}

func (c *claims) session() *models.Session {
	return &models.Session{
		ID:       c.UserID,
		Username: c.Username,
		RoleID:   c.RoleID,
	}
}

func intClaim(m jwt.MapClaims, keys ...string) int {
	for _, key := range keys {
		switch v := m[key].(type) {
		case float64:
			return int(v)
		case int:
			return v
		}
	}
	return 0
}
