package storage

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/gharnest/gharnest-backend/internal/models"
)

// DatabaseStore implements Store using GORM/PostgreSQL.
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a new database-backed storage
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// User operations

func (d *DatabaseStore) CreateUser(user *models.User) (*models.User, error) {
	if err := d.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("phone already registered: %w", models.ErrValidation)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (d *DatabaseStore) GetUserByID(userID string) (*models.User, error) {
	var user models.User
	err := d.db.Where("user_id = ?", userID).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %w", models.ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

func (d *DatabaseStore) GetUserByPhone(phone string) (*models.User, error) {
	var user models.User
	err := d.db.Where("phone = ?", phone).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %w", models.ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

func (d *DatabaseStore) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := d.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %w", models.ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}

func (d *DatabaseStore) UpdateUser(user *models.User) error {
	// Save with Select("*") so false booleans and nil OTP fields persist
	return d.db.Model(user).Select("*").Omit("created_at").Updates(user).Error
}

func (d *DatabaseStore) GetPendingSellers() ([]*models.User, error) {
	var users []*models.User
	err := d.db.
		Where("role = ? AND verification_pending = ? AND is_verified = ?", models.RoleSeller, true, false).
		Order("id ASC").
		Find(&users).Error
	return users, err
}

func (d *DatabaseStore) ClearExpiredPhoneOTPs() (int64, error) {
	result := d.db.Model(&models.User{}).
		Where("otp_expires_at IS NOT NULL AND otp_expires_at < ?", time.Now()).
		Updates(map[string]interface{}{
			"otp_code":       nil,
			"otp_expires_at": nil,
			"otp_attempts":   0,
		})
	return result.RowsAffected, result.Error
}

// Property operations

func (d *DatabaseStore) CreateProperty(property *models.Property) (*models.Property, error) {
	if err := d.db.Create(property).Error; err != nil {
		return nil, fmt.Errorf("failed to create property: %w", err)
	}
	return property, nil
}

func (d *DatabaseStore) GetProperty(propertyID string) (*models.Property, error) {
	var property models.Property
	err := d.db.Where("property_id = ?", propertyID).First(&property).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("property %w", models.ErrNotFound)
		}
		return nil, err
	}
	return &property, nil
}

func (d *DatabaseStore) GetAllProperties() ([]*models.Property, error) {
	var properties []*models.Property
	err := d.db.Order("id ASC").Find(&properties).Error
	return properties, err
}

func (d *DatabaseStore) GetPropertiesBySeller(sellerID string) ([]*models.Property, error) {
	var properties []*models.Property
	err := d.db.Where("seller_id = ?", sellerID).Order("id ASC").Find(&properties).Error
	return properties, err
}

// SearchProperties expresses the same predicate as models.FilterProperties
// as SQL: case-insensitive substring matches, price ceiling, AND across
// supplied criteria, insertion order preserved.
func (d *DatabaseStore) SearchProperties(search *models.PropertySearch) ([]*models.Property, error) {
	query := d.db.Model(&models.Property{})

	if search != nil {
		if search.Location != "" {
			query = query.Where("location ILIKE ?", "%"+search.Location+"%")
		}
		if search.PropertyType != "" {
			query = query.Where("type ILIKE ?", "%"+search.PropertyType+"%")
		}
		if search.MaxPrice > 0 {
			query = query.Where("price <= ?", search.MaxPrice)
		}
		if search.Keyword != "" {
			kw := "%" + search.Keyword + "%"
			query = query.Where("title ILIKE ? OR description ILIKE ?", kw, kw)
		}
	}

	var properties []*models.Property
	err := query.Order("id ASC").Find(&properties).Error
	return properties, err
}

func (d *DatabaseStore) UpdateProperty(property *models.Property) error {
	return d.db.Model(property).Select("*").Omit("created_at", "views", "likes").Updates(property).Error
}

func (d *DatabaseStore) DeleteProperty(propertyID string) error {
	result := d.db.Where("property_id = ?", propertyID).Delete(&models.Property{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("property %w", models.ErrNotFound)
	}
	d.db.Where("property_id = ?", propertyID).Delete(&models.PropertyLike{})
	return nil
}

// Engagement operations

func (d *DatabaseStore) IncrementViews(propertyID string) error {
	result := d.db.Model(&models.Property{}).
		Where("property_id = ?", propertyID).
		UpdateColumn("views", gorm.Expr("views + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("property %w", models.ErrNotFound)
	}
	return nil
}

// LikeProperty relies on the composite unique index on property_likes for
// the at-most-one-like guarantee; the counter update follows only after a
// successful insert.
func (d *DatabaseStore) LikeProperty(propertyID, userID string) error {
	if _, err := d.GetProperty(propertyID); err != nil {
		return err
	}

	like := &models.PropertyLike{PropertyID: propertyID, UserID: userID}
	if err := d.db.Create(like).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("property %w", models.ErrAlreadyLiked)
		}
		return fmt.Errorf("failed to record like: %w", err)
	}

	return d.db.Model(&models.Property{}).
		Where("property_id = ?", propertyID).
		UpdateColumn("likes", gorm.Expr("likes + 1")).Error
}
