package checkoutControllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/offerhub/marketplace-api/controllers/cart"
	"github.com/offerhub/marketplace-api/models"
	"github.com/offerhub/marketplace-api/payment"
)

// baseURL builds the callback base for the payment provider. BASE_URL
// wins when set; otherwise the request host is used, like the source
// site did.
func baseURL(c *gin.Context) string {
	if base := os.Getenv("BASE_URL"); base != "" {
		return strings.TrimRight(base, "/")
	}
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, c.Request.Host)
}

// GET /user/checkout — the checkout view. Pure read, no side effects;
// prices are resolved fresh from the offer table.
func RenderCheckout(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "You must be logged in to checkout"})
			return
		}
		userID := userIDVal.(uint)

		offers, missing, err := cartControllers.LoadCart(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}

		var total float64
		for _, offer := range offers {
			total += offer.Price
		}

		c.JSON(http.StatusOK, gin.H{
			"items":   offers,
			"missing": missing,
			"total":   total,
		})
	}
}

// POST /user/checkout
func SubmitCheckout(db *gorm.DB, gw payment.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "You must be logged in to checkout"})
			return
		}
		userID := userIDVal.(uint)

		base := baseURL(c)
		result, err := Submit(c.Request.Context(), db, gw, userID,
			base+"/checkout/success", base+"/checkout/cancel")
		if err != nil {
			switch {
			case errors.Is(err, ErrEmptyCart):
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			case errors.Is(err, ErrInvalidPrice):
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			case errors.Is(err, ErrUserNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			case errors.Is(err, ErrPaymentGateway):
				log.Printf("checkout: gateway failure for user %d: %v", userID, err)
				c.JSON(http.StatusBadGateway, gin.H{"error": ErrPaymentGateway.Error()})
			default:
				log.Printf("checkout: failed for user %d: %v", userID, err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Some error occurred, we are sorry!"})
			}
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// GET /checkout/success — stateless landing page; the authoritative
// paid transition happens in the webhook.
func CheckoutSuccess(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Payment completed, thank you for your purchase"})
}

// GET /checkout/cancel — stateless; performs no inverse mutation, the
// cart stays as the submission left it.
func CheckoutCancel(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Payment cancelled"})
}

// GET /user/orders
func GetUserOrders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID := userIDVal.(uint)

		var orders []models.Order
		if err := db.Where("user_id = ?", userID).Order("id desc").Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}

		c.JSON(http.StatusOK, orders)
	}
}
