package middleware

import (
	"net/http"

	"food_marketplace/internal/model"

	"github.com/gin-gonic/gin"
)

// RoleMiddleware creates a middleware to check for specific actor roles.
// It must run after SessionAuthMiddleware.
func RoleMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		for _, allowedRole := range allowedRoles {
			if actor.Role == allowedRole {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
	}
}

// CustomerMiddleware allows only customers
func CustomerMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleCustomer)
}

// RestaurantMiddleware allows only restaurant owners
func RestaurantMiddleware() gin.HandlerFunc {
	return RoleMiddleware(model.RoleRestaurant)
}
