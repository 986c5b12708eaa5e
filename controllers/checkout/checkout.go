package checkoutControllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/offerhub/marketplace-api/models"
	"github.com/offerhub/marketplace-api/payment"
)

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrInvalidPrice   = errors.New("offer has an invalid price")
	ErrUserNotFound   = errors.New("user not found")
	ErrPaymentGateway = errors.New("payment provider is unavailable")
)

const currency = "usd"

// gatewayTimeout bounds the provider call so a hung gateway cannot
// hold the checkout transaction open indefinitely.
const gatewayTimeout = 20 * time.Second

// Result is a successful checkout submission: the buyer follows URL,
// the order is tracked under Ref.
type Result struct {
	URL      string `json:"url"`
	OrderRef string `json:"order_ref"`
}

// Submit prices the cart, creates a payment session and clears the
// cart, all inside one transaction:
//
//   - the user row is locked FOR UPDATE, so two concurrent submissions
//     serialize and the second one observes an already-empty cart;
//   - only the cart rows that were priced are deleted, so an add that
//     lands mid-checkout survives into the next cart;
//   - the delete only commits after the gateway returned a session, so
//     a gateway failure rolls everything back and the cart is intact.
func Submit(ctx context.Context, db *gorm.DB, gw payment.Gateway, userID uint, successURL, cancelURL string) (*Result, error) {
	var result *Result

	err := db.Transaction(func(tx *gorm.DB) error {
		locked := tx
		// sqlite rejects FOR UPDATE; its single-writer model already
		// serializes writing transactions.
		if tx.Dialector.Name() != "sqlite" {
			locked = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var user models.User
		if err := locked.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		var items []models.CartItem
		if err := tx.Where("user_id = ?", userID).Order("id asc").Find(&items).Error; err != nil {
			return err
		}

		var (
			lines   []models.OrderLine
			itemIDs []uint
			total   int64
			skipped int
		)
		for _, item := range items {
			var offer models.Offer
			if err := tx.First(&offer, item.OfferID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					// Stale reference; drop it with the rest of the snapshot.
					itemIDs = append(itemIDs, item.ID)
					skipped++
					continue
				}
				return err
			}
			if offer.Price < 0 {
				return ErrInvalidPrice
			}

			unitAmount := int64(math.Round(offer.Price * 100))
			lines = append(lines, models.OrderLine{
				Name:       offer.Title,
				UnitAmount: unitAmount,
				Currency:   currency,
				Quantity:   1,
			})
			itemIDs = append(itemIDs, item.ID)
			total += unitAmount
		}
		if skipped > 0 {
			log.Printf("checkout: dropped %d stale cart entries for user %d", skipped, userID)
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		linesJSON, err := json.Marshal(lines)
		if err != nil {
			return err
		}

		order := models.Order{
			UserID:      userID,
			Ref:         uuid.NewString(),
			AmountMinor: total,
			Currency:    currency,
			Status:      models.OrderStatusPending,
			Lines:       linesJSON,
			CreatedAt:   time.Now(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		gwCtx, cancel := context.WithTimeout(ctx, gatewayTimeout)
		defer cancel()

		sessionReq := payment.SessionRequest{
			SuccessURL: successURL,
			CancelURL:  cancelURL,
		}
		for _, line := range lines {
			sessionReq.LineItems = append(sessionReq.LineItems, payment.LineItem{
				Name:       line.Name,
				UnitAmount: line.UnitAmount,
				Currency:   line.Currency,
				Quantity:   line.Quantity,
			})
		}

		session, err := gw.CreateSession(gwCtx, sessionReq)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPaymentGateway, err)
		}

		if err := tx.Model(&order).Update("provider_ref", session.ID).Error; err != nil {
			return err
		}

		// Clear exactly the snapshot that was priced.
		if err := tx.Where("user_id = ? AND id IN ?", userID, itemIDs).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}

		result = &Result{URL: session.URL, OrderRef: order.Ref}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
