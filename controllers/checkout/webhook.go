package checkoutControllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/offerhub/marketplace-api/models"
)

// stripeEvent is the slice of a Stripe webhook event the order
// transition needs.
type stripeEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID string `json:"id"`
		} `json:"object"`
	} `json:"data"`
}

// PaymentWebhookHandler moves the pending order to its terminal
// payment status when the provider reports the session outcome.
func PaymentWebhookHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var event stripeEvent
		if err := c.ShouldBindJSON(&event); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to parse event"})
			return
		}
		if event.Data.Object.ID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing session id"})
			return
		}

		var status models.OrderStatus
		switch event.Type {
		case "checkout.session.completed":
			status = models.OrderStatusPaid
		case "checkout.session.expired":
			status = models.OrderStatusCancelled
		default:
			// Not an event we track; acknowledge so the provider
			// stops retrying.
			c.JSON(http.StatusOK, gin.H{"message": "ignored"})
			return
		}

		var order models.Order
		err := db.Where("provider_ref = ?", event.Data.Object.ID).First(&order).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "unknown session"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to look up order"})
			return
		}

		if err := db.Model(&order).Update("status", status).Error; err != nil {
			log.Printf("webhook: failed to update order %s: %v", order.Ref, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "order updated"})
	}
}
