package auth

import (
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/offerhub/marketplace-api/models"
)

var (
	ErrMissingField = errors.New("username, email and password are required")
	// ErrDuplicateIdentity covers both username and email collisions.
	ErrDuplicateIdentity = errors.New("username or email is already registered")
	// ErrInvalidCredentials is returned for unknown email and for a
	// wrong password alike; callers must not be able to tell which.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPersistence        = errors.New("some error occurred, we are sorry")
)

// RegisterUser creates a user with an empty cart.
func RegisterUser(db *gorm.DB, username, email, password string, role models.Role) (uint, error) {
	if username == "" || email == "" || password == "" {
		return 0, ErrMissingField
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, ErrPersistence
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}

	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, ErrDuplicateIdentity
		}
		log.Printf("register: failed to insert user: %v", err)
		return 0, ErrPersistence
	}
	return user.ID, nil
}

// LoginUser checks the credentials and, on success, creates a session
// row and returns a token bound to it.
func LoginUser(db *gorm.DB, email, password string) (string, error) {
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrInvalidCredentials
		}
		log.Printf("login: failed to look up user: %v", err)
		return "", ErrPersistence
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	session := models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: time.Now(),
	}
	if err := db.Create(&session).Error; err != nil {
		log.Printf("login: failed to create session: %v", err)
		return "", ErrPersistence
	}

	return mintToken(session.ID, user.ID, user.Role)
}

// Logout revokes the token's session. Unknown, expired and malformed
// tokens all succeed: logging out twice is a no-op.
func Logout(db *gorm.DB, tokenString string) error {
	sid, err := ParseSessionID(tokenString)
	if err != nil {
		return nil
	}
	if err := db.Delete(&models.Session{}, "id = ?", sid).Error; err != nil {
		log.Printf("logout: failed to delete session: %v", err)
		return ErrPersistence
	}
	return nil
}
