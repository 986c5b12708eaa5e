package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/offerhub/marketplace-api/models"
)

type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /register
func RegisterHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		role, err := models.ParseRole(input.Role)
		if err != nil {
			role = models.RoleBuyer
		}

		userID, err := RegisterUser(db, input.Username, input.Email, input.Password, role)
		if err != nil {
			switch {
			case errors.Is(err, ErrMissingField):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case errors.Is(err, ErrDuplicateIdentity):
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": ErrPersistence.Error()})
			}
			return
		}

		c.JSON(http.StatusCreated, gin.H{"user_id": userID})
	}
}

// POST /login
func LoginHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		token, err := LoginUser(db, input.Email, input.Password)
		if err != nil {
			if errors.Is(err, ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": ErrPersistence.Error()})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}

// POST /logout
func LogoutHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := Logout(db, c.GetHeader("Authorization")); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": ErrPersistence.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
	}
}
