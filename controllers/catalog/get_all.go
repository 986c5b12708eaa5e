package catalogControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/offerhub/marketplace-api/models"
)

// GET /offers?search=
func GetOffers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.Offer{})

		// Substring match on the title, case-insensitive. LOWER/LIKE
		// instead of ILIKE so the query runs on every dialect.
		if search := c.Query("search"); search != "" {
			query = query.Where("LOWER(title) LIKE LOWER(?)", "%"+search+"%")
		}

		var offers []models.Offer
		if err := query.Order("id asc").Find(&offers).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch offers"})
			return
		}

		c.JSON(http.StatusOK, offers)
	}
}
