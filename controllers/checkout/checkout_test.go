package checkoutControllers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/offerhub/marketplace-api/models"
	"github.com/offerhub/marketplace-api/payment"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Offer{}, &models.CartItem{}, &models.Session{}, &models.Order{},
	))
	return db
}

func newUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{
		Username:     username,
		Email:        username + "@x.com",
		PasswordHash: "x",
		Role:         models.RoleBuyer,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func newOffer(t *testing.T, db *gorm.DB, title string, price float64) models.Offer {
	t.Helper()
	offer := models.Offer{
		SellerUsername: "bob",
		Title:          title,
		Price:          price,
		CreatedAt:      time.Now(),
	}
	require.NoError(t, db.Create(&offer).Error)
	return offer
}

func addToCart(t *testing.T, db *gorm.DB, userID, offerID uint) {
	t.Helper()
	require.NoError(t, db.Create(&models.CartItem{UserID: userID, OfferID: offerID, AddedAt: time.Now()}).Error)
}

func cartSize(t *testing.T, db *gorm.DB, userID uint) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&count).Error)
	return count
}

type fakeGateway struct {
	lastReq *payment.SessionRequest
	session *payment.Session
	err     error
}

func (f *fakeGateway) CreateSession(ctx context.Context, req payment.SessionRequest) (*payment.Session, error) {
	f.lastReq = &req
	if f.err != nil {
		return nil, f.err
	}
	return f.session, nil
}

func TestSubmit_Scenario(t *testing.T) {
	// alice adds bob's 9.99 Widget and checks out: the gateway sees
	// {Widget, 999, usd, qty 1} and the cart ends up empty.
	db := newTestDB(t)
	alice := newUser(t, db, "alice")
	widget := newOffer(t, db, "Widget", 9.99)
	addToCart(t, db, alice.ID, widget.ID)

	gw := &fakeGateway{session: &payment.Session{ID: "cs_123", URL: "https://pay.example/cs_123"}}

	result, err := Submit(context.Background(), db, gw, alice.ID,
		"https://shop.example/checkout/success", "https://shop.example/checkout/cancel")
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/cs_123", result.URL)
	assert.NotEmpty(t, result.OrderRef)

	require.NotNil(t, gw.lastReq)
	require.Len(t, gw.lastReq.LineItems, 1)
	assert.Equal(t, "Widget", gw.lastReq.LineItems[0].Name)
	assert.Equal(t, int64(999), gw.lastReq.LineItems[0].UnitAmount)
	assert.Equal(t, "usd", gw.lastReq.LineItems[0].Currency)
	assert.Equal(t, int64(1), gw.lastReq.LineItems[0].Quantity)
	assert.Equal(t, "https://shop.example/checkout/success", gw.lastReq.SuccessURL)

	assert.Zero(t, cartSize(t, db, alice.ID))

	var order models.Order
	require.NoError(t, db.Where("ref = ?", result.OrderRef).First(&order).Error)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "cs_123", order.ProviderRef)
	assert.Equal(t, int64(999), order.AmountMinor)

	var lines []models.OrderLine
	require.NoError(t, json.Unmarshal(order.Lines, &lines))
	require.Len(t, lines, 1)
	assert.Equal(t, "Widget", lines[0].Name)
}

func TestSubmit_MultipleItemsPricedAndCleared(t *testing.T) {
	db := newTestDB(t)
	alice := newUser(t, db, "alice")
	widget := newOffer(t, db, "Widget", 9.99)
	gadget := newOffer(t, db, "Gadget", 4.50)
	addToCart(t, db, alice.ID, widget.ID)
	addToCart(t, db, alice.ID, gadget.ID)
	addToCart(t, db, alice.ID, widget.ID)

	gw := &fakeGateway{session: &payment.Session{ID: "cs_1", URL: "https://pay.example/cs_1"}}

	result, err := Submit(context.Background(), db, gw, alice.ID, "s", "c")
	require.NoError(t, err)

	require.Len(t, gw.lastReq.LineItems, 3)
	assert.Zero(t, cartSize(t, db, alice.ID))

	var order models.Order
	require.NoError(t, db.Where("ref = ?", result.OrderRef).First(&order).Error)
	assert.Equal(t, int64(999+450+999), order.AmountMinor)
}

func TestSubmit_EmptyCartRejected(t *testing.T) {
	db := newTestDB(t)
	alice := newUser(t, db, "alice")

	gw := &fakeGateway{session: &payment.Session{ID: "cs_1", URL: "u"}}

	_, err := Submit(context.Background(), db, gw, alice.ID, "s", "c")
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Nil(t, gw.lastReq)
}

func TestSubmit_GatewayFailureLeavesCartIntact(t *testing.T) {
	db := newTestDB(t)
	alice := newUser(t, db, "alice")
	widget := newOffer(t, db, "Widget", 9.99)
	addToCart(t, db, alice.ID, widget.ID)

	gw := &fakeGateway{err: errors.New("connection refused")}

	_, err := Submit(context.Background(), db, gw, alice.ID, "s", "c")
	assert.ErrorIs(t, err, ErrPaymentGateway)

	// Cart untouched, no order row left behind.
	assert.Equal(t, int64(1), cartSize(t, db, alice.ID))
	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)
}

func TestSubmit_UsesCheckoutTimePrice(t *testing.T) {
	db := newTestDB(t)
	alice := newUser(t, db, "alice")
	widget := newOffer(t, db, "Widget", 9.99)
	addToCart(t, db, alice.ID, widget.ID)

	// Price changes between add-to-cart and checkout.
	require.NoError(t, db.Model(&models.Offer{}).Where("id = ?", widget.ID).Update("price", 12.34).Error)

	gw := &fakeGateway{session: &payment.Session{ID: "cs_1", URL: "u"}}

	_, err := Submit(context.Background(), db, gw, alice.ID, "s", "c")
	require.NoError(t, err)
	require.Len(t, gw.lastReq.LineItems, 1)
	assert.Equal(t, int64(1234), gw.lastReq.LineItems[0].UnitAmount)
}

func TestSubmit_NegativePriceRejected(t *testing.T) {
	db := newTestDB(t)
	alice := newUser(t, db, "alice")
	widget := newOffer(t, db, "Widget", 9.99)
	addToCart(t, db, alice.ID, widget.ID)

	require.NoError(t, db.Model(&models.Offer{}).Where("id = ?", widget.ID).Update("price", -1.0).Error)

	gw := &fakeGateway{session: &payment.Session{ID: "cs_1", URL: "u"}}

	_, err := Submit(context.Background(), db, gw, alice.ID, "s", "c")
	assert.ErrorIs(t, err, ErrInvalidPrice)
	assert.Equal(t, int64(1), cartSize(t, db, alice.ID))
}

func TestSubmit_StaleCartEntriesDropped(t *testing.T) {
	db := newTestDB(t)
	alice := newUser(t, db, "alice")
	widget := newOffer(t, db, "Widget", 9.99)
	gone := newOffer(t, db, "Gone", 1.00)
	addToCart(t, db, alice.ID, widget.ID)
	addToCart(t, db, alice.ID, gone.ID)

	require.NoError(t, db.Delete(&models.Offer{}, gone.ID).Error)

	gw := &fakeGateway{session: &payment.Session{ID: "cs_1", URL: "u"}}

	_, err := Submit(context.Background(), db, gw, alice.ID, "s", "c")
	require.NoError(t, err)

	require.Len(t, gw.lastReq.LineItems, 1)
	assert.Equal(t, "Widget", gw.lastReq.LineItems[0].Name)
	assert.Zero(t, cartSize(t, db, alice.ID))
}

func TestSubmit_SecondCheckoutObservesEmptyCart(t *testing.T) {
	db := newTestDB(t)
	alice := newUser(t, db, "alice")
	widget := newOffer(t, db, "Widget", 9.99)
	addToCart(t, db, alice.ID, widget.ID)

	gw := &fakeGateway{session: &payment.Session{ID: "cs_1", URL: "u"}}

	_, err := Submit(context.Background(), db, gw, alice.ID, "s", "c")
	require.NoError(t, err)

	_, err = Submit(context.Background(), db, gw, alice.ID, "s", "c")
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestSubmit_UserNotFound(t *testing.T) {
	db := newTestDB(t)

	gw := &fakeGateway{session: &payment.Session{ID: "cs_1", URL: "u"}}

	_, err := Submit(context.Background(), db, gw, 9999, "s", "c")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
