package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Image count bounds per listing
const (
	MinPropertyImages = 1
	MaxPropertyImages = 20
)

// StringList stores an ordered list of strings as a JSON column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
}

// Property represents a listing owned by a verified seller.
type Property struct {
	gorm.Model

	PropertyID string `json:"property_id" gorm:"uniqueIndex"`
	SellerID   string `json:"seller_id" gorm:"index"`

	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`    // e.g. "Residential", "Commercial"
	Subtype     string `json:"subtype"` // e.g. "Apartment", "Villa"
	Bedrooms    int    `json:"bedrooms"`
	Bathrooms   int    `json:"bathrooms"`
	Balconies   int    `json:"balconies"`
	Floor       int    `json:"floor"`
	TotalFloors int    `json:"total_floors"`
	Facing      string `json:"facing"`
	Age         int    `json:"age"` // years

	Location   string  `json:"location"` // free-text, searched by substring
	Street     string  `json:"street"`
	City       string  `json:"city"`
	State      string  `json:"state"`
	PostalCode string  `json:"postal_code"`
	Country    string  `json:"country"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`

	BuiltUpArea float64 `json:"built_up_area"` // sqft
	CarpetArea  float64 `json:"carpet_area"`
	PlotArea    float64 `json:"plot_area"`

	Price            float64 `json:"price"`
	OwnershipType    string  `json:"ownership_type"`
	PossessionStatus string  `json:"possession_status"`

	Images StringList `json:"images" gorm:"type:text"` // 1-20 URLs, ordered

	Views  int64  `json:"views" gorm:"default:0"`
	Likes  int64  `json:"likes" gorm:"default:0"`
	Status string `json:"status" gorm:"default:Available"`
}

// BeforeCreate hook to auto-generate PropertyID
func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.PropertyID == "" {
		p.PropertyID = fmt.Sprintf("PROP%d%03d", time.Now().Unix(), time.Now().Nanosecond()%1000)
	}
	if p.Status == "" {
		p.Status = "Available"
	}
	return nil
}

// PropertyLike records one like per user per property. The composite
// unique index is what enforces at-most-one-like.
type PropertyLike struct {
	gorm.Model
	PropertyID string `json:"property_id" gorm:"uniqueIndex:idx_property_like"`
	UserID     string `json:"user_id" gorm:"uniqueIndex:idx_property_like"`
}

// PropertySearch holds the optional search criteria. Zero values mean
// "no constraint"; supplied criteria are ANDed.
type PropertySearch struct {
	Location     string  `json:"location"`
	PropertyType string  `json:"property_type"`
	MaxPrice     float64 `json:"price"`
	Keyword      string  `json:"query"`
}

// Matches reports whether the property satisfies every supplied criterion.
// All text matching is case-insensitive substring matching.
func (s *PropertySearch) Matches(p *Property) bool {
	if s.Location != "" && !containsFold(p.Location, s.Location) {
		return false
	}
	if s.PropertyType != "" && !containsFold(p.Type, s.PropertyType) {
		return false
	}
	if s.MaxPrice > 0 && p.Price > s.MaxPrice {
		return false
	}
	if s.Keyword != "" && !containsFold(p.Title, s.Keyword) && !containsFold(p.Description, s.Keyword) {
		return false
	}
	return true
}

// FilterProperties returns the subset of props matching the search,
// preserving the original order.
func FilterProperties(props []*Property, search *PropertySearch) []*Property {
	if search == nil {
		return props
	}
	var results []*Property
	for _, p := range props {
		if search.Matches(p) {
			results = append(results, p)
		}
	}
	return results
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
