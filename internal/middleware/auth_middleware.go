package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/smartrail/train-reservation-backend/internal/models"
	"github.com/smartrail/train-reservation-backend/pkg/jwt"
)

const userContextKey = "user_context"

// UserContext carries the authenticated user through a request
type UserContext struct {
	UserID   string
	Username string
	Role     string
}

// AuthMiddleware validates the bearer token and stores the user context
func AuthMiddleware(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header must be 'Bearer <token>'"})
			return
		}

		claims, err := jwtService.ValidateAccessToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(userContextKey, &UserContext{
			UserID:   claims.UserID,
			Username: claims.Username,
			Role:     claims.Role,
		})
		c.Next()
	}
}

// OptionalAuth stores the user context when a valid bearer token is present
// but never rejects the request. Used on public endpoints whose responses
// widen for authenticated admins.
func OptionalAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			if claims, err := jwtService.ValidateAccessToken(parts[1]); err == nil {
				c.Set(userContextKey, &UserContext{
					UserID:   claims.UserID,
					Username: claims.Username,
					Role:     claims.Role,
				})
			}
		}
		c.Next()
	}
}

// RequireRole allows only the named roles past
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := GetUserContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
	}
}

// GetUserContext retrieves the authenticated user from the request context
func GetUserContext(c *gin.Context) (*UserContext, bool) {
	value, exists := c.Get(userContextKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*UserContext)
	return user, ok
}

// IsAdmin reports whether the request is made by an admin
func IsAdmin(c *gin.Context) bool {
	user, ok := GetUserContext(c)
	return ok && user.Role == models.RoleAdmin
}
