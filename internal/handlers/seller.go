package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gharnest/gharnest-backend/internal/services"
	"github.com/gharnest/gharnest-backend/internal/storage"
)

// SellerHandler exposes the seller verification workflow endpoints.
type SellerHandler struct {
	store        storage.Store
	verification *services.VerificationService
}

// NewSellerHandler creates a new seller handler
func NewSellerHandler(store storage.Store, verification *services.VerificationService) *SellerHandler {
	return &SellerHandler{
		store:        store,
		verification: verification,
	}
}

// UpdateSeller handles role and purpose selection for the caller.
func (h *SellerHandler) UpdateSeller(c *fiber.Ctx) error {
	var req struct {
		Role    string `json:"role"`
		Purpose string `json:"purpose"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	userID, _ := c.Locals("user_id").(string)
	user, err := h.verification.UpdateSellerRole(userID, req.Role, req.Purpose)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Role updated successfully",
		"user":    user,
		"step":    services.StepFor(user).String(),
	})
}

// UpdatePhone requests a phone OTP for the submitted number.
func (h *SellerHandler) UpdatePhone(c *fiber.Ctx) error {
	var req struct {
		Phone string `json:"phone"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Phone == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Phone number is required",
		})
	}

	result, err := h.verification.RequestPhoneOTP(req.Phone)
	if err != nil {
		return errorResponse(c, err)
	}

	response := fiber.Map{
		"message":    "OTP generated successfully",
		"phone":      result.Phone,
		"simulated":  result.Simulated,
		"expires_at": result.ExpiresAt,
	}
	if result.Simulated {
		response["otp"] = result.Code
	} else {
		response["message_sid"] = result.MessageSID
	}
	return c.JSON(response)
}

// VerifyOTP checks a submitted phone OTP.
func (h *SellerHandler) VerifyOTP(c *fiber.Ctx) error {
	var req struct {
		Phone string `json:"phone"`
		OTP   string `json:"otp"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Phone == "" || req.OTP == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Phone and OTP are required",
		})
	}

	user, err := h.verification.VerifyPhoneOTP(req.Phone, req.OTP)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Phone verified successfully",
		"user":    user,
		"step":    services.StepFor(user).String(),
	})
}

// EmailOTP requests an email OTP.
func (h *SellerHandler) EmailOTP(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if err := h.verification.RequestEmailOTP(c.Context(), req.Email); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "OTP sent to email",
		"email":   req.Email,
	})
}

// VerifyEmail checks a submitted email OTP.
func (h *SellerHandler) VerifyEmail(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.Email == "" || req.OTP == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email and OTP are required",
		})
	}

	if err := h.verification.VerifyEmailOTP(c.Context(), req.Email, req.OTP); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Email verified successfully",
		"email":   req.Email,
	})
}

// UpdateProfile submits the seller profile and marks the caller pending
// admin review.
func (h *SellerHandler) UpdateProfile(c *fiber.Ctx) error {
	var req struct {
		Bio            string `json:"bio"`
		Specialization string `json:"specialization"`
		Phone          string `json:"phone"`
		Email          string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	userID, _ := c.Locals("user_id").(string)
	user, err := h.verification.SubmitProfile(c.Context(), userID, req.Bio, req.Specialization, req.Phone, req.Email)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Profile submitted for verification",
		"user":    user,
		"step":    services.StepFor(user).String(),
	})
}

// CheckVerifiedSeller polls the caller's verification status.
func (h *SellerHandler) CheckVerifiedSeller(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	status, user, err := h.verification.CheckStatus(userID)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"status":   status,
		"verified": user.IsVerified,
		"user":     user,
		"step":     services.StepFor(user).String(),
	})
}

// AcceptTerms records the terms decision gating listing permission.
func (h *SellerHandler) AcceptTerms(c *fiber.Ctx) error {
	var req struct {
		Agree bool `json:"agree"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	userID, _ := c.Locals("user_id").(string)
	user, accepted, err := h.verification.AcceptTerms(userID, req.Agree)
	if err != nil {
		return errorResponse(c, err)
	}

	message := "Terms accepted, you can now list properties"
	if !accepted {
		message = "Terms declined"
	}
	return c.JSON(fiber.Map{
		"message":  message,
		"can_list": user.CanListProperty(),
	})
}
