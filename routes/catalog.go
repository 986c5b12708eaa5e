package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	catalogControllers "github.com/offerhub/marketplace-api/controllers/catalog"
	"github.com/offerhub/marketplace-api/middleware"
	"github.com/offerhub/marketplace-api/storage"
)

// SetupCatalogRoutes registers the public browse/search endpoints and
// the stored-image route.
func SetupCatalogRoutes(r *gin.Engine, db *gorm.DB, store *storage.ImageStore) {
	r.GET("/offers", catalogControllers.GetOffers(db))
	r.GET("/offers/:id", catalogControllers.GetOfferByID(db))
	r.Static("/img", store.Dir)
}

// SetupSellerRoutes registers all "/seller/*" endpoints. Requires a
// valid token and the seller role.
func SetupSellerRoutes(r *gin.Engine, db *gorm.DB, store *storage.ImageStore) {
	sellerGroup := r.Group("/seller")
	sellerGroup.Use(middleware.ValidateToken(db), middleware.RequireSeller)
	{
		sellerGroup.POST("/offers", catalogControllers.CreateOffer(db, store))
		sellerGroup.GET("/offers/export", catalogControllers.ExportOffersToExcel(db))
	}
}
