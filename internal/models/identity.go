package models

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Role constants carried in JWT claims.
const (
	RoleAdmin  = "ROLE_ADMIN"
	RoleAuthor = "ROLE_AUTHOR"
	RoleUser   = "ROLE_USER"
)

// Claims represents the JWT payload issued by the accounts service.
type Claims struct {
	UserID               uuid.UUID `json:"user_id"`
	Roles                []string  `json:"roles"`
	jwt.RegisteredClaims           // Issuer, Subject, ExpiresAt, IssuedAt, ID (JTI)
}

// HasRole reports whether targetRole is present in userRoles.
func HasRole(userRoles []string, targetRole string) bool {
	for _, role := range userRoles {
		if role == targetRole {
			return true
		}
	}
	return false
}

// CallerIdentity is the capability view of an authenticated caller used by
// the ownership guard. It is deliberately decoupled from the accounts
// subsystem: only the id and the two capability bits matter here.
type CallerIdentity struct {
	ID       uuid.UUID
	IsStaff  bool
	IsAuthor bool
}

// CallerFromClaims derives the capability view from verified JWT claims.
func CallerFromClaims(claims *Claims) CallerIdentity {
	return CallerIdentity{
		ID:       claims.UserID,
		IsStaff:  HasRole(claims.Roles, RoleAdmin),
		IsAuthor: HasRole(claims.Roles, RoleAuthor) || HasRole(claims.Roles, RoleAdmin),
	}
}

// Reader identifies the browser session driving a traversal, with the
// optional authenticated account behind it. SessionKey is the stable
// per-browser token used verbatim as the progress key.
type Reader struct {
	SessionKey string
	UserID     *uuid.UUID
}
