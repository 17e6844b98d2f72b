package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsValidRoleAndPurpose(t *testing.T) {
	assert.True(t, IsValidRole(RoleBuyer))
	assert.True(t, IsValidRole(RoleSeller))
	assert.True(t, IsValidRole(RoleAdmin))
	assert.False(t, IsValidRole("tenant"))
	assert.False(t, IsValidRole(""))

	assert.True(t, IsValidPurpose(PurposeSell))
	assert.True(t, IsValidPurpose(PurposeRent))
	assert.True(t, IsValidPurpose(PurposePG))
	assert.False(t, IsValidPurpose("sell")) // case matters
	assert.False(t, IsValidPurpose(""))
}

func TestCanListProperty(t *testing.T) {
	now := time.Now()

	u := &User{Role: RoleSeller, IsVerified: true, TermsAcceptedAt: &now}
	assert.True(t, u.CanListProperty())

	assert.False(t, (&User{Role: RoleBuyer, IsVerified: true, TermsAcceptedAt: &now}).CanListProperty())
	assert.False(t, (&User{Role: RoleSeller, IsVerified: false, TermsAcceptedAt: &now}).CanListProperty())
	assert.False(t, (&User{Role: RoleSeller, IsVerified: true}).CanListProperty())
}

func TestClearPhoneOTP(t *testing.T) {
	code := "123456"
	expiry := time.Now().Add(5 * time.Minute)
	u := &User{OTPCode: &code, OTPExpiresAt: &expiry, OTPAttempts: 2}

	u.ClearPhoneOTP()
	assert.Nil(t, u.OTPCode)
	assert.Nil(t, u.OTPExpiresAt)
	assert.Zero(t, u.OTPAttempts)
}
