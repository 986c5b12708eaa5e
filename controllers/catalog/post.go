package catalogControllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/offerhub/marketplace-api/models"
	"github.com/offerhub/marketplace-api/storage"
)

var ErrInvalidPrice = errors.New("price must be a positive number")

// CreateOffer lists a new offer for the authenticated seller. The
// image is written to the store first and removed again if the record
// fails to persist, so no record ever points at a missing image and a
// failed insert leaves no orphan file behind.
func CreateOffer(db *gorm.DB, store *storage.ImageStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		usernameVal, exists := c.Get("username")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		username := usernameVal.(string)

		title := c.PostForm("title")
		priceStr := c.PostForm("price")
		if title == "" || priceStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title and price are required"})
			return
		}

		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": ErrInvalidPrice.Error()})
			return
		}

		file, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Please select an image to sell your product"})
			return
		}

		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read image"})
			return
		}
		defer src.Close()

		storedName, err := store.Save(file.Filename, src)
		if err != nil {
			if errors.Is(err, storage.ErrFilenameNotAllowed) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			log.Printf("create offer: failed to store image: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store image"})
			return
		}

		offer := models.Offer{
			SellerUsername: username,
			Title:          title,
			Price:          price,
			ImagePath:      fmt.Sprintf("/img/%s", storedName),
			CreatedAt:      time.Now(),
		}

		if err := db.Create(&offer).Error; err != nil {
			if removeErr := store.Remove(storedName); removeErr != nil {
				log.Printf("create offer: failed to remove orphaned image %s: %v", storedName, removeErr)
			}
			log.Printf("create offer: failed to insert record: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Some error occurred, we are sorry!"})
			return
		}

		c.JSON(http.StatusCreated, offer)
	}
}
