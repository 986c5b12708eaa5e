package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/offerhub/marketplace-api/models"
)

// RequireSeller gates seller-only routes. Must run after ValidateToken.
func RequireSeller(c *gin.Context) {
	roleVal, exists := c.Get("role")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		c.Abort()
		return
	}

	role, ok := roleVal.(models.Role)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "You must be a seller to sell on this website"})
		c.Abort()
		return
	}

	switch role {
	case models.RoleSeller:
		c.Next()
	case models.RoleBuyer:
		c.JSON(http.StatusForbidden, gin.H{"error": "You must be a seller to sell on this website"})
		c.Abort()
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "You must be a seller to sell on this website"})
		c.Abort()
	}
}
