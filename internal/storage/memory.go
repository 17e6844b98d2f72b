package storage

import (
	"fmt"
	"sync"
	"time"

	"github.com/gharnest/gharnest-backend/internal/models"
)

// MemoryStore holds all data in memory for tests and local development.
type MemoryStore struct {
	users      map[string]*models.User     // keyed by UserID
	properties map[string]*models.Property // keyed by PropertyID
	propOrder  []string                    // insertion order of PropertyIDs
	likes      map[string]map[string]bool  // PropertyID -> set of UserIDs

	userMu sync.RWMutex
	propMu sync.RWMutex

	userCounter int
	propCounter int
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[string]*models.User),
		properties: make(map[string]*models.Property),
		likes:      make(map[string]map[string]bool),
	}
}

// User operations

func (m *MemoryStore) CreateUser(user *models.User) (*models.User, error) {
	m.userMu.Lock()
	defer m.userMu.Unlock()

	for _, u := range m.users {
		if u.Phone != "" && u.Phone == user.Phone {
			return nil, fmt.Errorf("phone already registered: %w", models.ErrValidation)
		}
	}

	m.userCounter++
	if user.UserID == "" {
		user.UserID = fmt.Sprintf("USR%05d", m.userCounter)
	}
	if user.Role == "" {
		user.Role = models.RoleBuyer
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	m.users[user.UserID] = user
	return user, nil
}

func (m *MemoryStore) GetUserByID(userID string) (*models.User, error) {
	m.userMu.RLock()
	defer m.userMu.RUnlock()

	user, exists := m.users[userID]
	if !exists {
		return nil, fmt.Errorf("user %w", models.ErrNotFound)
	}
	return user, nil
}

func (m *MemoryStore) GetUserByPhone(phone string) (*models.User, error) {
	m.userMu.RLock()
	defer m.userMu.RUnlock()

	for _, user := range m.users {
		if user.Phone == phone {
			return user, nil
		}
	}
	return nil, fmt.Errorf("user %w", models.ErrNotFound)
}

func (m *MemoryStore) GetUserByEmail(email string) (*models.User, error) {
	m.userMu.RLock()
	defer m.userMu.RUnlock()

	for _, user := range m.users {
		if user.Email != "" && user.Email == email {
			return user, nil
		}
	}
	return nil, fmt.Errorf("user %w", models.ErrNotFound)
}

func (m *MemoryStore) UpdateUser(user *models.User) error {
	m.userMu.Lock()
	defer m.userMu.Unlock()

	if _, exists := m.users[user.UserID]; !exists {
		return fmt.Errorf("user %w", models.ErrNotFound)
	}
	user.UpdatedAt = time.Now()
	m.users[user.UserID] = user
	return nil
}

func (m *MemoryStore) GetPendingSellers() ([]*models.User, error) {
	m.userMu.RLock()
	defer m.userMu.RUnlock()

	var pending []*models.User
	for _, user := range m.users {
		if user.Role == models.RoleSeller && user.VerificationPending && !user.IsVerified {
			pending = append(pending, user)
		}
	}
	return pending, nil
}

func (m *MemoryStore) ClearExpiredPhoneOTPs() (int64, error) {
	m.userMu.Lock()
	defer m.userMu.Unlock()

	var cleared int64
	now := time.Now()
	for _, user := range m.users {
		if user.OTPExpiresAt != nil && now.After(*user.OTPExpiresAt) {
			user.ClearPhoneOTP()
			cleared++
		}
	}
	return cleared, nil
}

// Property operations

func (m *MemoryStore) CreateProperty(property *models.Property) (*models.Property, error) {
	m.propMu.Lock()
	defer m.propMu.Unlock()

	m.propCounter++
	if property.PropertyID == "" {
		property.PropertyID = fmt.Sprintf("PROP%05d", m.propCounter)
	}
	if property.Status == "" {
		property.Status = "Available"
	}
	property.CreatedAt = time.Now()
	property.UpdatedAt = time.Now()

	m.properties[property.PropertyID] = property
	m.propOrder = append(m.propOrder, property.PropertyID)
	return property, nil
}

func (m *MemoryStore) GetProperty(propertyID string) (*models.Property, error) {
	m.propMu.RLock()
	defer m.propMu.RUnlock()

	property, exists := m.properties[propertyID]
	if !exists {
		return nil, fmt.Errorf("property %w", models.ErrNotFound)
	}
	return property, nil
}

func (m *MemoryStore) GetAllProperties() ([]*models.Property, error) {
	m.propMu.RLock()
	defer m.propMu.RUnlock()

	return m.orderedProperties(), nil
}

func (m *MemoryStore) GetPropertiesBySeller(sellerID string) ([]*models.Property, error) {
	m.propMu.RLock()
	defer m.propMu.RUnlock()

	var results []*models.Property
	for _, p := range m.orderedProperties() {
		if p.SellerID == sellerID {
			results = append(results, p)
		}
	}
	return results, nil
}

func (m *MemoryStore) SearchProperties(search *models.PropertySearch) ([]*models.Property, error) {
	m.propMu.RLock()
	defer m.propMu.RUnlock()

	return models.FilterProperties(m.orderedProperties(), search), nil
}

func (m *MemoryStore) UpdateProperty(property *models.Property) error {
	m.propMu.Lock()
	defer m.propMu.Unlock()

	if _, exists := m.properties[property.PropertyID]; !exists {
		return fmt.Errorf("property %w", models.ErrNotFound)
	}
	property.UpdatedAt = time.Now()
	m.properties[property.PropertyID] = property
	return nil
}

func (m *MemoryStore) DeleteProperty(propertyID string) error {
	m.propMu.Lock()
	defer m.propMu.Unlock()

	if _, exists := m.properties[propertyID]; !exists {
		return fmt.Errorf("property %w", models.ErrNotFound)
	}
	delete(m.properties, propertyID)
	delete(m.likes, propertyID)
	for i, id := range m.propOrder {
		if id == propertyID {
			m.propOrder = append(m.propOrder[:i], m.propOrder[i+1:]...)
			break
		}
	}
	return nil
}

// Engagement operations

func (m *MemoryStore) IncrementViews(propertyID string) error {
	m.propMu.Lock()
	defer m.propMu.Unlock()

	property, exists := m.properties[propertyID]
	if !exists {
		return fmt.Errorf("property %w", models.ErrNotFound)
	}
	property.Views++
	return nil
}

func (m *MemoryStore) LikeProperty(propertyID, userID string) error {
	m.propMu.Lock()
	defer m.propMu.Unlock()

	property, exists := m.properties[propertyID]
	if !exists {
		return fmt.Errorf("property %w", models.ErrNotFound)
	}

	likedBy, ok := m.likes[propertyID]
	if !ok {
		likedBy = make(map[string]bool)
		m.likes[propertyID] = likedBy
	}
	if likedBy[userID] {
		return fmt.Errorf("property %w", models.ErrAlreadyLiked)
	}
	likedBy[userID] = true
	property.Likes++
	return nil
}

// orderedProperties returns properties in insertion order. Callers must
// hold propMu.
func (m *MemoryStore) orderedProperties() []*models.Property {
	props := make([]*models.Property, 0, len(m.propOrder))
	for _, id := range m.propOrder {
		if p, ok := m.properties[id]; ok {
			props = append(props, p)
		}
	}
	return props
}
