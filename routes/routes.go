package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/offerhub/marketplace-api/payment"
	"github.com/offerhub/marketplace-api/storage"
)

// SetupRoutes is the single entry-point that wires up the public,
// user, seller and payment route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, gw payment.Gateway, store *storage.ImageStore) {
	// Public auth + catalog browsing (no middleware)
	SetupAuthRoutes(r, db)
	SetupCatalogRoutes(r, db, store)

	// Buyer routes (token-protected): cart, checkout, orders
	SetupUserRoutes(r, db, gw)

	// Seller routes (token + role protected)
	SetupSellerRoutes(r, db, store)

	// Payment provider callbacks
	SetupPaymentRoutes(r, db)
}
