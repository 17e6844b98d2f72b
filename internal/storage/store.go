package storage

import (
	"github.com/gharnest/gharnest-backend/internal/models"
)

var storeInstance Store

// SetStore sets the global store instance (call from main.go)
func SetStore(s Store) {
	storeInstance = s
}

// GetStore returns the global store instance
func GetStore() Store {
	return storeInstance
}

// Store defines the interface for storage operations
type Store interface {
	// User operations
	CreateUser(user *models.User) (*models.User, error)
	GetUserByID(userID string) (*models.User, error)
	GetUserByPhone(phone string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	UpdateUser(user *models.User) error
	GetPendingSellers() ([]*models.User, error)
	ClearExpiredPhoneOTPs() (int64, error)

	// Property operations
	CreateProperty(property *models.Property) (*models.Property, error)
	GetProperty(propertyID string) (*models.Property, error)
	GetAllProperties() ([]*models.Property, error)
	GetPropertiesBySeller(sellerID string) ([]*models.Property, error)
	SearchProperties(search *models.PropertySearch) ([]*models.Property, error)
	UpdateProperty(property *models.Property) error
	DeleteProperty(propertyID string) error

	// Engagement operations
	IncrementViews(propertyID string) error
	LikeProperty(propertyID, userID string) error
}
