package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

// Seller purposes chosen during role selection
const (
	PurposeSell = "Sell"
	PurposeRent = "Rent/lease"
	PurposePG   = "List as PG"
)

// User represents a buyer, seller candidate or admin.
// Phone OTP state lives on the record; email OTP state lives in the
// transient OTP cache keyed by email.
type User struct {
	gorm.Model

	UserID string `json:"user_id" gorm:"uniqueIndex"`
	Name   string `json:"name"`
	Email  string `json:"email" gorm:"index"`
	Phone  string `json:"phone" gorm:"uniqueIndex"` // E.164, e.g. +919876543210

	Role    string `json:"role" gorm:"default:buyer"`
	Purpose string `json:"purpose"` // "Sell", "Rent/lease", "List as PG"

	Bio            string `json:"bio"`
	Specialization string `json:"specialization"`

	IsPhoneVerified     bool       `json:"is_phone_verified" gorm:"default:false"`
	IsEmailVerified     bool       `json:"is_email_verified" gorm:"default:false"`
	IsVerified          bool       `json:"is_verified" gorm:"default:false"` // admin-approved seller
	VerificationPending bool       `json:"verification_pending" gorm:"default:false"`
	TermsAcceptedAt     *time.Time `json:"terms_accepted_at"`

	// Phone OTP fields, cleared on successful verification
	OTPCode      *string    `json:"-"`
	OTPExpiresAt *time.Time `json:"-"`
	OTPAttempts  int        `json:"-" gorm:"default:0"`
}

// BeforeCreate hook to auto-generate UserID and default the role
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == "" {
		u.UserID = fmt.Sprintf("USR%d%03d", time.Now().Unix(), time.Now().Nanosecond()%1000)
	}
	if u.Role == "" {
		u.Role = RoleBuyer
	}
	return nil
}

// IsValidRole reports whether role is one of the enumerated roles.
func IsValidRole(role string) bool {
	return role == RoleBuyer || role == RoleSeller || role == RoleAdmin
}

// IsValidPurpose reports whether purpose is one of the enumerated purposes.
func IsValidPurpose(purpose string) bool {
	return purpose == PurposeSell || purpose == PurposeRent || purpose == PurposePG
}

// CanListProperty checks whether the user may create listings: an
// admin-approved seller who has accepted the listing terms.
func (u *User) CanListProperty() bool {
	return u.Role == RoleSeller && u.IsVerified && u.TermsAcceptedAt != nil
}

// ClearPhoneOTP wipes the phone OTP fields after a successful verification.
func (u *User) ClearPhoneOTP() {
	u.OTPCode = nil
	u.OTPExpiresAt = nil
	u.OTPAttempts = 0
}
