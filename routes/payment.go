package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	checkoutControllers "github.com/offerhub/marketplace-api/controllers/checkout"
	"github.com/offerhub/marketplace-api/middleware"
)

// SetupPaymentRoutes registers the provider callback pages and the
// signed webhook.
func SetupPaymentRoutes(r *gin.Engine, db *gorm.DB) {
	r.GET("/checkout/success", checkoutControllers.CheckoutSuccess)
	r.GET("/checkout/cancel", checkoutControllers.CheckoutCancel)

	r.POST("/payment/webhook",
		middleware.PaymentWebhookAuth(),
		checkoutControllers.PaymentWebhookHandler(db),
	)
}
