package catalogControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/offerhub/marketplace-api/models"
)

// GET /offers/:id
func GetOfferByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var offer models.Offer
		if err := db.First(&offer, "id = ?", c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Offer not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch offer"})
			return
		}

		c.JSON(http.StatusOK, offer)
	}
}
