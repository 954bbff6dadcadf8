package auth

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the JWT claims presented by quoting channels. Subject carries
// the advisor or client identifier.
type Claims struct {
	jwt.RegisteredClaims
	BranchID string   `json:"branch_id,omitempty"`
	Roles    []string `json:"roles"`
}

// HasRole checks if the claims include the specified role.
func (c Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// HasAnyRole reports whether the claims include at least one of roles.
func (c Claims) HasAnyRole(roles ...string) bool {
	for _, r := range roles {
		if c.HasRole(r) {
			return true
		}
	}
	return false
}

// Role constants
const (
	RoleAdvisor   = "advisor"
	RoleAPIClient = "api_client"
	RoleAdmin     = "admin"
)
