package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	cartControllers "github.com/offerhub/marketplace-api/controllers/cart"
	checkoutControllers "github.com/offerhub/marketplace-api/controllers/checkout"
	"github.com/offerhub/marketplace-api/middleware"
	"github.com/offerhub/marketplace-api/payment"
)

// SetupUserRoutes registers all "/user/*" endpoints. Requires a valid
// token.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB, gw payment.Gateway) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken(db))
	{
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("", cartControllers.GetUserCart(db))
			cartGroup.POST("", cartControllers.AddToCart(db))
			cartGroup.DELETE("", cartControllers.ClearUserCart(db))
		}

		userGroup.GET("/checkout", checkoutControllers.RenderCheckout(db))
		userGroup.POST("/checkout", checkoutControllers.SubmitCheckout(db, gw))
		userGroup.GET("/orders", checkoutControllers.GetUserOrders(db))
	}
}
