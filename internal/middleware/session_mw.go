package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"food_marketplace/internal/model"
	"food_marketplace/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	ActorKey      = "actor"
	SessionCookie = "session_token"
)

// Authenticator resolves a session token to an actor
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*model.Actor, error)
}

// TokenFrom returns the session token from the Authorization header or,
// failing that, from the session cookie.
func TokenFrom(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
		return ""
	}
	token, err := c.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return token
}

// SessionAuthMiddleware requires a valid session and stores the actor in
// the gin context.
func SessionAuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := auth.Authenticate(c.Request.Context(), TokenFrom(c))
		if err != nil {
			if errors.Is(err, service.ErrUnauthenticated) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
				return
			}
			c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify session"})
			return
		}

		c.Set(ActorKey, *actor)
		c.Next()
	}
}

// ActorFrom returns the actor placed by SessionAuthMiddleware
func ActorFrom(c *gin.Context) (model.Actor, bool) {
	val, exists := c.Get(ActorKey)
	if !exists {
		return model.Actor{}, false
	}
	actor, ok := val.(model.Actor)
	return actor, ok
}
