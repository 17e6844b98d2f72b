package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gharnest/gharnest-backend/internal/models"
	"github.com/gharnest/gharnest-backend/internal/storage"
	"github.com/gharnest/gharnest-backend/internal/utils"
)

// VerificationService drives the seller verification workflow: role
// selection, phone OTP, email OTP, profile submission, admin approval
// and the terms-acceptance listing gate.
type VerificationService struct {
	store storage.Store
	sms   SMSSender
	email EmailSender
	cache OTPCache

	// maxAttempts caps phone OTP submissions per code; 0 means unlimited.
	maxAttempts int
}

// NewVerificationService wires the workflow engine. sms and email may be
// nil; delivery then fails for any step that needs the missing provider
// (simulated phone numbers never need the SMS provider).
func NewVerificationService(store storage.Store, sms SMSSender, email EmailSender, cache OTPCache) *VerificationService {
	maxAttempts := 0
	if v := os.Getenv("OTP_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			maxAttempts = parsed
		}
	}
	return &VerificationService{
		store:       store,
		sms:         sms,
		email:       email,
		cache:       cache,
		maxAttempts: maxAttempts,
	}
}

// PhoneOTPResult reports the outcome of a phone OTP request. Code is only
// populated in simulated mode; real deliveries expose the message SID.
type PhoneOTPResult struct {
	Phone      string    `json:"phone"`
	Simulated  bool      `json:"simulated"`
	Code       string    `json:"otp,omitempty"`
	MessageSID string    `json:"message_sid,omitempty"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// UpdateSellerRole handles role selection. Both values must be from the
// enumerated sets. Choosing the seller role performs the self-upgrade,
// which only a buyer may do; the upgrade resets admin approval.
func (s *VerificationService) UpdateSellerRole(userID, role, purpose string) (*models.User, error) {
	if !models.IsValidRole(role) {
		return nil, fmt.Errorf("role must be one of buyer, seller, admin: %w", models.ErrValidation)
	}
	if !models.IsValidPurpose(purpose) {
		return nil, fmt.Errorf("purpose must be one of Sell, Rent/lease, List as PG: %w", models.ErrValidation)
	}

	user, err := s.store.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	user.Purpose = purpose
	if role == models.RoleSeller {
		if user.Role != models.RoleBuyer {
			return nil, fmt.Errorf("only buyers can become sellers: %w", models.ErrForbidden)
		}
		user.Role = models.RoleSeller
		user.IsVerified = false
		user.Specialization = fmt.Sprintf("%s (%s)", models.RoleSeller, purpose)
	}

	if err := s.store.UpdateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// RequestPhoneOTP generates a 6-digit code for the normalized number and
// stores it on the user record, creating the record if absent. Numbers
// under the default country code short-circuit delivery and return the
// code in the result; all other numbers go through the SMS provider.
func (s *VerificationService) RequestPhoneOTP(phone string) (*PhoneOTPResult, error) {
	normalized := utils.NormalizePhone(phone)
	if normalized == "" {
		return nil, fmt.Errorf("phone number is required: %w", models.ErrValidation)
	}

	user, err := s.store.GetUserByPhone(normalized)
	if err != nil {
		user, err = s.store.CreateUser(&models.User{Phone: normalized})
		if err != nil {
			return nil, err
		}
	}

	code, err := utils.GenerateOTP()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP: %w", err)
	}

	expiresAt := time.Now().Add(OTPTTL)
	user.OTPCode = &code
	user.OTPExpiresAt = &expiresAt
	user.OTPAttempts = 0
	if err := s.store.UpdateUser(user); err != nil {
		return nil, err
	}

	result := &PhoneOTPResult{Phone: normalized, ExpiresAt: expiresAt}

	if strings.HasPrefix(normalized, utils.DefaultCountryCode) {
		result.Simulated = true
		result.Code = code
		return result, nil
	}

	if s.sms == nil {
		return nil, fmt.Errorf("SMS delivery is not configured")
	}
	sid, err := s.sms.SendSMS(normalized, fmt.Sprintf("Your GharNest verification code is %s. It expires in 5 minutes.", code))
	if err != nil {
		return nil, fmt.Errorf("failed to send OTP: %w", err)
	}
	result.MessageSID = sid
	return result, nil
}

// VerifyPhoneOTP checks the submitted code against the user record. On
// success the OTP fields are cleared and the phone is marked verified, so
// a second submission of the same code fails with not-found.
func (s *VerificationService) VerifyPhoneOTP(phone, code string) (*models.User, error) {
	normalized := utils.NormalizePhone(phone)

	user, err := s.store.GetUserByPhone(normalized)
	if err != nil {
		return nil, err
	}
	if user.OTPCode == nil || user.OTPExpiresAt == nil {
		return nil, fmt.Errorf("no OTP requested for this number: %w", models.ErrNotFound)
	}
	if time.Now().After(*user.OTPExpiresAt) {
		return nil, fmt.Errorf("OTP has %w", models.ErrExpired)
	}

	if s.maxAttempts > 0 {
		user.OTPAttempts++
		if user.OTPAttempts > s.maxAttempts {
			if err := s.store.UpdateUser(user); err != nil {
				log.Printf("failed to record OTP attempt for %s: %v", normalized, err)
			}
			return nil, fmt.Errorf("too many OTP attempts: %w", models.ErrForbidden)
		}
	}

	// Plain string equality; not a constant-time comparison.
	if *user.OTPCode != code {
		if s.maxAttempts > 0 {
			if err := s.store.UpdateUser(user); err != nil {
				log.Printf("failed to record OTP attempt for %s: %v", normalized, err)
			}
		}
		return nil, fmt.Errorf("%w for this number", models.ErrInvalidOTP)
	}

	user.ClearPhoneOTP()
	user.IsPhoneVerified = true
	if err := s.store.UpdateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

// RequestEmailOTP generates a code into the transient cache keyed by
// email and sends it through the email provider. A resend overwrites the
// cache entry, so the previous code stops working.
func (s *VerificationService) RequestEmailOTP(ctx context.Context, email string) error {
	if email == "" || !strings.Contains(email, "@") {
		return fmt.Errorf("a valid email is required: %w", models.ErrValidation)
	}

	code, err := utils.GenerateOTP()
	if err != nil {
		return fmt.Errorf("failed to generate OTP: %w", err)
	}

	if err := s.cache.Put(ctx, email, code); err != nil {
		return fmt.Errorf("failed to store OTP: %w", err)
	}

	if s.email == nil {
		return fmt.Errorf("email delivery is not configured")
	}
	html := fmt.Sprintf("<p>Your GharNest verification code is <strong>%s</strong>. It expires in 5 minutes.</p>", code)
	if err := s.email.SendEmail("", email, "Your GharNest verification code", html); err != nil {
		return fmt.Errorf("failed to send OTP email: %w", err)
	}
	return nil
}

// VerifyEmailOTP consumes the cached code. A missing entry is reported as
// expired; whether it expired or was never requested is indistinguishable.
// Consumption is recorded on the user record when one exists for the
// email, and otherwise as a short-lived marker that profile submission
// consumes.
func (s *VerificationService) VerifyEmailOTP(ctx context.Context, email, code string) error {
	stored, ok, err := s.cache.Get(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to read OTP: %w", err)
	}
	if !ok {
		return fmt.Errorf("OTP %w or was never requested", models.ErrExpired)
	}
	// Plain string equality; not a constant-time comparison.
	if stored != code {
		return fmt.Errorf("%w for this email", models.ErrInvalidOTP)
	}

	if err := s.cache.Delete(ctx, email); err != nil {
		log.Printf("failed to delete consumed email OTP for %s: %v", email, err)
	}

	if user, err := s.store.GetUserByEmail(email); err == nil {
		user.IsEmailVerified = true
		return s.store.UpdateUser(user)
	}
	return s.cache.Put(ctx, emailVerifiedKey(email), "1")
}

// SubmitProfile persists the seller profile and marks the user pending
// admin review. The phone must already be verified and the email OTP
// consumed.
func (s *VerificationService) SubmitProfile(ctx context.Context, userID, bio, specialization, phone, email string) (*models.User, error) {
	if bio == "" || specialization == "" {
		return nil, fmt.Errorf("bio and specialization are required: %w", models.ErrValidation)
	}

	user, err := s.store.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if !user.IsPhoneVerified {
		return nil, fmt.Errorf("phone is not verified: %w", models.ErrForbidden)
	}

	emailVerified := user.IsEmailVerified
	if !emailVerified && email != "" {
		_, emailVerified, err = s.cache.Get(ctx, emailVerifiedKey(email))
		if err != nil {
			return nil, fmt.Errorf("failed to read verification marker: %w", err)
		}
	}
	if !emailVerified {
		return nil, fmt.Errorf("email is not verified: %w", models.ErrForbidden)
	}

	user.Bio = bio
	user.Specialization = specialization
	if email != "" {
		user.Email = email
	}
	if phone != "" {
		user.Phone = utils.NormalizePhone(phone)
	}
	user.IsEmailVerified = true
	user.VerificationPending = true
	if err := s.store.UpdateUser(user); err != nil {
		return nil, err
	}

	if email != "" {
		if err := s.cache.Delete(ctx, emailVerifiedKey(email)); err != nil {
			log.Printf("failed to delete verification marker for %s: %v", email, err)
		}
	}
	return user, nil
}

// CheckStatus re-fetches the user and reports the verification state:
// "verified", "pending" or "unverified".
func (s *VerificationService) CheckStatus(userID string) (string, *models.User, error) {
	user, err := s.store.GetUserByID(userID)
	if err != nil {
		return "", nil, err
	}
	switch {
	case user.IsVerified:
		return "verified", user, nil
	case user.VerificationPending:
		return "pending", user, nil
	default:
		return "unverified", user, nil
	}
}

// AcceptTerms gates listing permission behind an explicit confirmation.
// Declining is a terminal, non-error exit from the flow.
func (s *VerificationService) AcceptTerms(userID string, agree bool) (*models.User, bool, error) {
	user, err := s.store.GetUserByID(userID)
	if err != nil {
		return nil, false, err
	}
	if !user.IsVerified || user.Role != models.RoleSeller {
		return nil, false, fmt.Errorf("seller is not verified yet: %w", models.ErrForbidden)
	}
	if !agree {
		return user, false, nil
	}

	now := time.Now()
	user.TermsAcceptedAt = &now
	if err := s.store.UpdateUser(user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// AdminVerifySeller flips the admin-approval flag. Approving an
// already-verified seller is a conflict.
func (s *VerificationService) AdminVerifySeller(userID string, approve bool) (*models.User, error) {
	user, err := s.store.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleSeller {
		return nil, fmt.Errorf("user is not a seller: %w", models.ErrValidation)
	}

	if approve {
		if user.IsVerified {
			return nil, fmt.Errorf("seller is %w", models.ErrAlreadyVerified)
		}
		user.IsVerified = true
	} else {
		user.IsVerified = false
		user.VerificationPending = false
	}

	if err := s.store.UpdateUser(user); err != nil {
		return nil, err
	}
	return user, nil
}

func emailVerifiedKey(email string) string {
	return "verified:" + email
}
