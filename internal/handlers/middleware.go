package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/0VAN/lms/internal/models"
	"github.com/0VAN/lms/internal/services"
)

const (
	currentUserKey = "currentUser"
	bearerTokenKey = "bearerToken"
)

// Authenticate resolves the bearer token, if any, and stashes the sanitized
// user in the request context. It never rejects: endpoints that need a user
// add RequireUser on top.
func Authenticate(auth services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token != "" {
			if user, err := auth.CurrentUser(token); err == nil {
				c.Set(currentUserKey, user)
				c.Set(bearerTokenKey, token)
			}
		}
		c.Next()
	}
}

// RequireUser aborts with 401 when no authenticated user is present.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, ok := v.(*models.User)
	if !ok {
		return nil
	}
	return user
}

func contextToken(c *gin.Context) string {
	v, ok := c.Get(bearerTokenKey)
	if !ok {
		return ""
	}
	token, _ := v.(string)
	return token
}

// bearerToken pulls the credential out of the Authorization header, with or
// without a "Bearer" prefix.
func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	fields := strings.Fields(header)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
