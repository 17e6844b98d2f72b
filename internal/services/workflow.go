package services

import (
	"github.com/gharnest/gharnest-backend/internal/models"
)

// Step is a stage of the seller verification workflow. The workflow is
// linear; a user's current step is derived from the persisted record, so
// an abandoned flow resumes exactly where the last successful step left
// it.
type Step int

const (
	StepRoleSelection Step = iota
	StepPhoneEntry
	StepPhoneOTPVerify
	StepEmailEntry
	StepProfileEntry
	StepAdminPending
	StepListingPermission
	StepDone
)

var stepNames = map[Step]string{
	StepRoleSelection:     "role_selection",
	StepPhoneEntry:        "phone_entry",
	StepPhoneOTPVerify:    "phone_otp_verify",
	StepEmailEntry:        "email_entry",
	StepProfileEntry:      "profile_entry",
	StepAdminPending:      "admin_pending",
	StepListingPermission: "listing_permission",
	StepDone:              "done",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

// Next returns the step that follows s. StepDone is terminal.
func (s Step) Next() Step {
	if s >= StepDone {
		return StepDone
	}
	return s + 1
}

// StepFor derives the user's current workflow step from the record. A nil
// user has not started the flow. Email entry and email OTP verification
// collapse into one derived step because the pending email code lives in
// the transient cache, not on the record.
func StepFor(u *models.User) Step {
	switch {
	case u == nil:
		return StepRoleSelection
	case u.Purpose == "":
		return StepRoleSelection
	case !u.IsPhoneVerified && u.OTPCode == nil:
		return StepPhoneEntry
	case !u.IsPhoneVerified:
		return StepPhoneOTPVerify
	case !u.IsEmailVerified:
		return StepEmailEntry
	case !u.VerificationPending && !u.IsVerified:
		return StepProfileEntry
	case !u.IsVerified:
		return StepAdminPending
	case u.TermsAcceptedAt == nil:
		return StepListingPermission
	default:
		return StepDone
	}
}
