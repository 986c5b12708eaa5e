package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/offerhub/marketplace-api/auth"
)

// SetupAuthRoutes registers registration, login and logout.
func SetupAuthRoutes(r *gin.Engine, db *gorm.DB) {
	r.POST("/register", auth.RegisterHandler(db))
	r.POST("/login", auth.LoginHandler(db))
	r.POST("/logout", auth.LogoutHandler(db))
}
