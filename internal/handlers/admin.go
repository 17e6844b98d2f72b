package handlers

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/gharnest/gharnest-backend/internal/services"
	"github.com/gharnest/gharnest-backend/internal/storage"
)

// AdminHandler handles admin operations
type AdminHandler struct {
	store        storage.Store
	verification *services.VerificationService
	sms          services.SMSSender
}

// NewAdminHandler creates a new admin handler. sms may be nil; approval
// notifications are then skipped.
func NewAdminHandler(store storage.Store, verification *services.VerificationService, sms services.SMSSender) *AdminHandler {
	return &AdminHandler{
		store:        store,
		verification: verification,
		sms:          sms,
	}
}

// GetPendingSellers lists sellers awaiting admin review.
func (h *AdminHandler) GetPendingSellers(c *fiber.Ctx) error {
	sellers, err := h.store.GetPendingSellers()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch pending sellers",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"sellers": sellers,
		"count":   len(sellers),
	})
}

// VerifySeller approves or rejects a seller. The body is optional and
// defaults to approval.
func (h *AdminHandler) VerifySeller(c *fiber.Ctx) error {
	userID := c.Params("id")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Seller ID is required",
		})
	}

	req := struct {
		Status string `json:"status"` // "approved" or "rejected"
	}{Status: "approved"}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
	}
	if req.Status != "approved" && req.Status != "rejected" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Status must be 'approved' or 'rejected'",
		})
	}

	seller, err := h.verification.AdminVerifySeller(userID, req.Status == "approved")
	if err != nil {
		return errorResponse(c, err)
	}

	// Best-effort notification; failures are logged, not surfaced.
	if h.sms != nil && seller.Phone != "" {
		body := fmt.Sprintf("Hi %s, your GharNest seller account has been %s.", seller.Name, req.Status)
		if _, err := h.sms.SendSMS(seller.Phone, body); err != nil {
			log.Printf("Failed to notify seller %s: %v", seller.UserID, err)
		}
	}

	log.Printf("Seller %s %s by admin", seller.UserID, req.Status)

	return c.JSON(fiber.Map{
		"success": true,
		"message": fmt.Sprintf("Seller %s successfully", req.Status),
		"seller":  seller,
	})
}
