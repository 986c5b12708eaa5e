package auth

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/offerhub/marketplace-api/models"
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

func TestRegisterUser(t *testing.T) {
	db := newTestDB(t)

	userID, err := RegisterUser(db, "alice", "a@x.com", "pw123", models.RoleBuyer)
	require.NoError(t, err)
	assert.NotZero(t, userID)

	var user models.User
	require.NoError(t, db.First(&user, userID).Error)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, models.RoleBuyer, user.Role)
	assert.NotEqual(t, "pw123", user.PasswordHash)

	// A fresh account starts with an empty cart.
	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRegisterUser_MissingFields(t *testing.T) {
	db := newTestDB(t)

	cases := []struct {
		name                      string
		username, email, password string
	}{
		{"no username", "", "a@x.com", "pw"},
		{"no email", "alice", "", "pw"},
		{"no password", "alice", "a@x.com", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := RegisterUser(db, tc.username, tc.email, tc.password, models.RoleBuyer)
			assert.ErrorIs(t, err, ErrMissingField)
		})
	}
}

func TestRegisterUser_DuplicateIdentity(t *testing.T) {
	db := newTestDB(t)

	_, err := RegisterUser(db, "alice", "a@x.com", "pw123", models.RoleBuyer)
	require.NoError(t, err)

	_, err = RegisterUser(db, "alice", "other@x.com", "pw123", models.RoleBuyer)
	assert.ErrorIs(t, err, ErrDuplicateIdentity)

	_, err = RegisterUser(db, "alice2", "a@x.com", "pw123", models.RoleBuyer)
	assert.ErrorIs(t, err, ErrDuplicateIdentity)
}

func TestLoginUser(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := newTestDB(t)

	userID, err := RegisterUser(db, "alice", "a@x.com", "pw123", models.RoleBuyer)
	require.NoError(t, err)

	token, err := LoginUser(db, "a@x.com", "pw123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	sid, err := ParseSessionID(token)
	require.NoError(t, err)

	var session models.Session
	require.NoError(t, db.First(&session, "id = ?", sid).Error)
	assert.Equal(t, userID, session.UserID)
}

func TestLoginUser_InvalidCredentialsIndistinguishable(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := newTestDB(t)

	_, err := RegisterUser(db, "alice", "a@x.com", "pw123", models.RoleBuyer)
	require.NoError(t, err)

	_, wrongPassErr := LoginUser(db, "a@x.com", "nope")
	_, unknownEmailErr := LoginUser(db, "nobody@x.com", "pw123")

	assert.ErrorIs(t, wrongPassErr, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmailErr, ErrInvalidCredentials)
	assert.Equal(t, wrongPassErr.Error(), unknownEmailErr.Error())
}

func TestLogout_Idempotent(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := newTestDB(t)

	_, err := RegisterUser(db, "alice", "a@x.com", "pw123", models.RoleBuyer)
	require.NoError(t, err)

	token, err := LoginUser(db, "a@x.com", "pw123")
	require.NoError(t, err)

	require.NoError(t, Logout(db, token))

	var count int64
	require.NoError(t, db.Model(&models.Session{}).Count(&count).Error)
	assert.Zero(t, count)

	// Second logout and garbage tokens are no-ops.
	assert.NoError(t, Logout(db, token))
	assert.NoError(t, Logout(db, "not-a-token"))
}
