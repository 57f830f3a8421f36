// Package auth resolves the authenticated owner from a Bearer JWT. The
// identity provider issuing the tokens is external; only the signature
// and the subject claim matter here.
package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// ownerKey is the gin context key the owner id is stored under.
const ownerKey = "owner_id"

// Validator checks bearer tokens and extracts the owner id.
type Validator struct {
	secret []byte
}

// NewValidator returns a Validator for HS256 tokens signed with secret.
func NewValidator(secret string) *Validator {
	return &Validator{secret: []byte(secret)}
}

// OwnerID verifies the token and returns its subject.
func (v *Validator) OwnerID(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil {
		return "", err
	}

	sub, err := parsed.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", errors.New("token has no subject")
	}
	return sub, nil
}

// Middleware rejects requests without a valid bearer token and stores
// the owner id in the gin context.
func Middleware(v *Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		ownerID, err := v.OwnerID(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Set(ownerKey, ownerID)
		c.Next()
	}
}

// OwnerID returns the authenticated owner from the gin context, or ""
// if the request never passed the middleware.
func OwnerID(c *gin.Context) string {
	if v, ok := c.Get(ownerKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
