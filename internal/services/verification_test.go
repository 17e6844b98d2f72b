package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gharnest/gharnest-backend/internal/models"
	"github.com/gharnest/gharnest-backend/internal/storage"
)

var otpPattern = regexp.MustCompile(`\d{6}`)

// fakeEmailSender records the last delivery so tests can read the code
// out of the message body.
type fakeEmailSender struct {
	lastTo   string
	lastBody string
	fail     bool
}

func (f *fakeEmailSender) SendEmail(toName, toEmail, subject, htmlContent string) error {
	if f.fail {
		return assert.AnError
	}
	f.lastTo = toEmail
	f.lastBody = htmlContent
	return nil
}

func (f *fakeEmailSender) lastCode() string {
	return otpPattern.FindString(f.lastBody)
}

func newTestVerificationService(t *testing.T) (*VerificationService, *storage.MemoryStore, *fakeEmailSender) {
	t.Helper()
	store := storage.NewMemoryStore()
	email := &fakeEmailSender{}
	svc := NewVerificationService(store, nil, email, NewMemoryOTPCache(OTPTTL))
	return svc, store, email
}

func TestPhoneOTPHappyPath(t *testing.T) {
	svc, store, _ := newTestVerificationService(t)

	result, err := svc.RequestPhoneOTP("9876543210")
	require.NoError(t, err)
	assert.Equal(t, "+919876543210", result.Phone)
	assert.True(t, result.Simulated)
	require.Regexp(t, `^\d{6}$`, result.Code)

	user, err := svc.VerifyPhoneOTP("9876543210", result.Code)
	require.NoError(t, err)
	assert.True(t, user.IsPhoneVerified)
	assert.Nil(t, user.OTPCode)
	assert.Nil(t, user.OTPExpiresAt)

	stored, err := store.GetUserByPhone("+919876543210")
	require.NoError(t, err)
	assert.True(t, stored.IsPhoneVerified)

	// Re-submitting the consumed code fails with not-found
	_, err = svc.VerifyPhoneOTP("9876543210", result.Code)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPhoneOTPWrongCode(t *testing.T) {
	svc, _, _ := newTestVerificationService(t)

	result, err := svc.RequestPhoneOTP("9876543210")
	require.NoError(t, err)

	wrong := "000000"
	if wrong == result.Code {
		wrong = "000001"
	}
	_, err = svc.VerifyPhoneOTP("9876543210", wrong)
	assert.ErrorIs(t, err, models.ErrInvalidOTP)
}

func TestPhoneOTPExpired(t *testing.T) {
	svc, store, _ := newTestVerificationService(t)

	result, err := svc.RequestPhoneOTP("9123456789")
	require.NoError(t, err)

	user, err := store.GetUserByPhone("+919123456789")
	require.NoError(t, err)
	past := time.Now().Add(-time.Minute)
	user.OTPExpiresAt = &past

	_, err = svc.VerifyPhoneOTP("9123456789", result.Code)
	assert.ErrorIs(t, err, models.ErrExpired)
}

func TestPhoneOTPUnknownNumber(t *testing.T) {
	svc, _, _ := newTestVerificationService(t)

	_, err := svc.VerifyPhoneOTP("9999999999", "123456")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPhoneOTPResendInvalidatesOldCode(t *testing.T) {
	svc, _, _ := newTestVerificationService(t)

	first, err := svc.RequestPhoneOTP("9876543210")
	require.NoError(t, err)
	second, err := svc.RequestPhoneOTP("9876543210")
	require.NoError(t, err)

	if first.Code != second.Code {
		_, err = svc.VerifyPhoneOTP("9876543210", first.Code)
		assert.ErrorIs(t, err, models.ErrInvalidOTP)
	}

	_, err = svc.VerifyPhoneOTP("9876543210", second.Code)
	assert.NoError(t, err)
}

func TestPhoneOTPAttemptLimit(t *testing.T) {
	t.Setenv("OTP_MAX_ATTEMPTS", "2")

	store := storage.NewMemoryStore()
	svc := NewVerificationService(store, nil, &fakeEmailSender{}, NewMemoryOTPCache(OTPTTL))

	result, err := svc.RequestPhoneOTP("9876543210")
	require.NoError(t, err)

	wrong := "000000"
	if wrong == result.Code {
		wrong = "000001"
	}

	_, err = svc.VerifyPhoneOTP("9876543210", wrong)
	assert.ErrorIs(t, err, models.ErrInvalidOTP)
	_, err = svc.VerifyPhoneOTP("9876543210", wrong)
	assert.ErrorIs(t, err, models.ErrInvalidOTP)

	// Third attempt is rejected even with the correct code
	_, err = svc.VerifyPhoneOTP("9876543210", result.Code)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestUpdateSellerRoleValidation(t *testing.T) {
	svc, store, _ := newTestVerificationService(t)

	user, err := store.CreateUser(&models.User{Phone: "+919876543210"})
	require.NoError(t, err)

	_, err = svc.UpdateSellerRole(user.UserID, "tenant", models.PurposeSell)
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.UpdateSellerRole(user.UserID, models.RoleSeller, "flip")
	assert.ErrorIs(t, err, models.ErrValidation)

	updated, err := svc.UpdateSellerRole(user.UserID, models.RoleSeller, models.PurposeSell)
	require.NoError(t, err)
	assert.Equal(t, models.RoleSeller, updated.Role)
	assert.Equal(t, models.PurposeSell, updated.Purpose)
	assert.False(t, updated.IsVerified)
	assert.NotEmpty(t, updated.Specialization)

	// Upgrading again fails: only buyers can become sellers
	_, err = svc.UpdateSellerRole(user.UserID, models.RoleSeller, models.PurposeRent)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestEmailOTPFlow(t *testing.T) {
	svc, _, email := newTestVerificationService(t)
	ctx := context.Background()

	err := svc.RequestEmailOTP(ctx, "not-an-email")
	assert.ErrorIs(t, err, models.ErrValidation)

	require.NoError(t, svc.RequestEmailOTP(ctx, "seller@example.com"))
	assert.Equal(t, "seller@example.com", email.lastTo)
	code := email.lastCode()
	require.Regexp(t, `^\d{6}$`, code)

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}
	err = svc.VerifyEmailOTP(ctx, "seller@example.com", wrong)
	assert.ErrorIs(t, err, models.ErrInvalidOTP)

	require.NoError(t, svc.VerifyEmailOTP(ctx, "seller@example.com", code))

	// The code was consumed on success
	err = svc.VerifyEmailOTP(ctx, "seller@example.com", code)
	assert.ErrorIs(t, err, models.ErrExpired)
}

func TestFullWorkflow(t *testing.T) {
	svc, store, email := newTestVerificationService(t)
	ctx := context.Background()

	// Phone verification creates the record
	result, err := svc.RequestPhoneOTP("9876543210")
	require.NoError(t, err)
	user, err := svc.VerifyPhoneOTP("9876543210", result.Code)
	require.NoError(t, err)

	// Role selection + self-upgrade
	user, err = svc.UpdateSellerRole(user.UserID, models.RoleSeller, models.PurposeRent)
	require.NoError(t, err)

	// Email verification before the email is on the record
	require.NoError(t, svc.RequestEmailOTP(ctx, "seller@example.com"))
	require.NoError(t, svc.VerifyEmailOTP(ctx, "seller@example.com", email.lastCode()))

	// Profile submission requires the verified email
	user, err = svc.SubmitProfile(ctx, user.UserID, "Ten years in Bangalore real estate", "Rentals", "", "seller@example.com")
	require.NoError(t, err)
	assert.True(t, user.VerificationPending)
	assert.True(t, user.IsEmailVerified)
	assert.Equal(t, "seller@example.com", user.Email)
	assert.Equal(t, StepAdminPending, StepFor(user))

	status, _, err := svc.CheckStatus(user.UserID)
	require.NoError(t, err)
	assert.Equal(t, "pending", status)

	// Terms cannot be accepted before admin approval
	_, _, err = svc.AcceptTerms(user.UserID, true)
	assert.ErrorIs(t, err, models.ErrForbidden)

	// Admin approval
	user, err = svc.AdminVerifySeller(user.UserID, true)
	require.NoError(t, err)
	assert.True(t, user.IsVerified)

	// Approving twice is a conflict
	_, err = svc.AdminVerifySeller(user.UserID, true)
	assert.ErrorIs(t, err, models.ErrAlreadyVerified)

	status, _, err = svc.CheckStatus(user.UserID)
	require.NoError(t, err)
	assert.Equal(t, "verified", status)

	// Declining terms is a non-error exit without listing permission
	user, accepted, err := svc.AcceptTerms(user.UserID, false)
	require.NoError(t, err)
	assert.False(t, accepted)
	assert.False(t, user.CanListProperty())

	user, accepted, err = svc.AcceptTerms(user.UserID, true)
	require.NoError(t, err)
	assert.True(t, accepted)
	assert.True(t, user.CanListProperty())
	assert.Equal(t, StepDone, StepFor(user))

	stored, err := store.GetUserByID(user.UserID)
	require.NoError(t, err)
	assert.True(t, stored.CanListProperty())
}

func TestSubmitProfileRequirements(t *testing.T) {
	svc, store, _ := newTestVerificationService(t)
	ctx := context.Background()

	user, err := store.CreateUser(&models.User{Phone: "+919876543210"})
	require.NoError(t, err)

	_, err = svc.SubmitProfile(ctx, user.UserID, "", "Rentals", "", "seller@example.com")
	assert.ErrorIs(t, err, models.ErrValidation)

	// Phone not verified yet
	_, err = svc.SubmitProfile(ctx, user.UserID, "bio", "Rentals", "", "seller@example.com")
	assert.ErrorIs(t, err, models.ErrForbidden)

	user.IsPhoneVerified = true
	require.NoError(t, store.UpdateUser(user))

	// Email OTP never consumed
	_, err = svc.SubmitProfile(ctx, user.UserID, "bio", "Rentals", "", "seller@example.com")
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestAdminVerifySellerRejectsNonSeller(t *testing.T) {
	svc, store, _ := newTestVerificationService(t)

	user, err := store.CreateUser(&models.User{Phone: "+919876543210", Role: models.RoleBuyer})
	require.NoError(t, err)

	_, err = svc.AdminVerifySeller(user.UserID, true)
	assert.ErrorIs(t, err, models.ErrValidation)
}
