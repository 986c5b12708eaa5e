package cartControllers

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/offerhub/marketplace-api/models"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrOfferNotFound = errors.New("offer does not exist")
)

// AddItem appends an offer to the user's cart. The append is a single
// INSERT, so two concurrent adds for the same user cannot lose each
// other. Duplicates get their own row.
func AddItem(db *gorm.DB, userID, offerID uint) error {
	var count int64
	if err := db.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}

	if err := db.First(&models.Offer{}, offerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOfferNotFound
		}
		return err
	}

	item := models.CartItem{
		UserID:  userID,
		OfferID: offerID,
		AddedAt: time.Now(),
	}
	return db.Create(&item).Error
}

// LoadCart resolves the stored offer ids against the catalog, in
// insertion order. Prices come from the offer rows read now, never
// from anything cached at add time. Entries whose offer has vanished
// are skipped; the count of skipped entries is returned so callers can
// surface a degraded-cart notice.
func LoadCart(db *gorm.DB, userID uint) ([]models.Offer, int, error) {
	var items []models.CartItem
	if err := db.Where("user_id = ?", userID).Order("id asc").Find(&items).Error; err != nil {
		return nil, 0, err
	}

	offers := make([]models.Offer, 0, len(items))
	missing := 0
	for _, item := range items {
		var offer models.Offer
		if err := db.First(&offer, item.OfferID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				missing++
				continue
			}
			// Non-critical read path: keep the rest of the cart usable.
			log.Printf("cart: failed to resolve offer %d: %v", item.OfferID, err)
			missing++
			continue
		}
		offers = append(offers, offer)
	}
	return offers, missing, nil
}

// Clear empties the user's cart. Clearing an already-empty cart is a
// no-op success.
func Clear(db *gorm.DB, userID uint) error {
	return db.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}
