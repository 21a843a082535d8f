// Package httpkit provides HTTP utilities including identity abstraction.
package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Identity represents the authenticated user's identity.
// This interface abstracts identity extraction from the web framework,
// allowing handlers to access user information without depending on Gin.
type Identity interface {
	// UserID returns the authenticated user's ID.
	UserID() uuid.UUID
	// Username returns the authenticated user's username.
	Username() string
	// FullName returns the user's display name.
	FullName() string
	// Role returns the user's role.
	Role() string
	// HasRole checks if the user holds one of the given roles.
	HasRole(roles ...string) bool
	// IsAuthenticated returns true if the user is authenticated.
	IsAuthenticated() bool
}

// identity is the concrete implementation of Identity.
type identity struct {
	userID        uuid.UUID
	username      string
	fullName      string
	role          string
	authenticated bool
}

func (i *identity) UserID() uuid.UUID {
	return i.userID
}

func (i *identity) Username() string {
	return i.username
}

func (i *identity) FullName() string {
	return i.fullName
}

func (i *identity) Role() string {
	return i.role
}

func (i *identity) HasRole(roles ...string) bool {
	for _, r := range roles {
		if r == i.role {
			return true
		}
	}
	return false
}

func (i *identity) IsAuthenticated() bool {
	return i.authenticated
}

// GetIdentity extracts the Identity from a Gin context.
// Returns an unauthenticated identity if user info is not present.
func GetIdentity(c *gin.Context) Identity {
	userID, userOK := c.Get(ContextUserIDKey)
	if !userOK {
		return &identity{authenticated: false}
	}

	uid, ok := userID.(uuid.UUID)
	if !ok {
		return &identity{authenticated: false}
	}

	role, _ := c.Get(ContextRoleKey)
	roleText, _ := role.(string)
	username, _ := c.Get(ContextUsernameKey)
	usernameText, _ := username.(string)
	fullName, _ := c.Get(ContextFullNameKey)
	fullNameText, _ := fullName.(string)

	return &identity{
		userID:        uid,
		username:      usernameText,
		fullName:      fullNameText,
		role:          roleText,
		authenticated: true,
	}
}

// MustGetIdentity extracts the Identity from a Gin context.
// If the user is not authenticated, it aborts with 401 Unauthorized and returns nil.
func MustGetIdentity(c *gin.Context) Identity {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil
	}
	return id
}
