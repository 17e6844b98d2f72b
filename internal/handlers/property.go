package handlers

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/gharnest/gharnest-backend/internal/models"
	"github.com/gharnest/gharnest-backend/internal/services"
	"github.com/gharnest/gharnest-backend/internal/storage"
)

// PropertyHandler handles property listing requests
type PropertyHandler struct {
	store   storage.Store
	uploads *services.UploadService
}

// NewPropertyHandler creates a new property handler. uploads may be nil
// when no S3 bucket is configured.
func NewPropertyHandler(store storage.Store, uploads *services.UploadService) *PropertyHandler {
	return &PropertyHandler{
		store:   store,
		uploads: uploads,
	}
}

// CreateProperty creates a listing for a verified seller.
func (h *PropertyHandler) CreateProperty(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	user, err := h.store.GetUserByID(userID)
	if err != nil {
		return errorResponse(c, err)
	}
	if !user.CanListProperty() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only verified sellers who accepted the terms can list properties",
		})
	}

	var property models.Property
	if err := c.BodyParser(&property); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if property.Title == "" || property.Location == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title and location are required",
		})
	}
	if property.Price <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Price must be a positive number",
		})
	}
	if len(property.Images) < models.MinPropertyImages || len(property.Images) > models.MaxPropertyImages {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Between 1 and 20 images are required",
		})
	}

	property.SellerID = user.UserID
	property.Views = 0
	property.Likes = 0

	created, err := h.store.CreateProperty(&property)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create property",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Property listed successfully",
		"property": created,
	})
}

// GetProperties retrieves all listings.
func (h *PropertyHandler) GetProperties(c *fiber.Ctx) error {
	properties, err := h.store.GetAllProperties()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve properties",
		})
	}

	return c.JSON(fiber.Map{
		"properties": properties,
		"count":      len(properties),
	})
}

// SearchProperties filters listings by the query parameters. A malformed
// price is treated as absent rather than rejected.
func (h *PropertyHandler) SearchProperties(c *fiber.Ctx) error {
	search := &models.PropertySearch{
		Location:     c.Query("location"),
		PropertyType: c.Query("property_type"),
		Keyword:      c.Query("query"),
	}
	if raw := c.Query("price"); raw != "" {
		if price, err := strconv.ParseFloat(raw, 64); err == nil {
			search.MaxPrice = price
		}
	}

	results, err := h.store.SearchProperties(search)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to search properties",
		})
	}

	// Optional load-more windowing
	total := len(results)
	if offset := c.QueryInt("offset", 0); offset > 0 {
		if offset > total {
			offset = total
		}
		results = results[offset:]
	}
	if limit := c.QueryInt("limit", 0); limit > 0 && limit < len(results) {
		results = results[:limit]
	}

	return c.JSON(fiber.Map{
		"properties": results,
		"count":      len(results),
		"total":      total,
	})
}

// GetProperty retrieves a single listing and counts the view.
func (h *PropertyHandler) GetProperty(c *fiber.Ctx) error {
	id := c.Params("id")
	property, err := h.store.GetProperty(id)
	if err != nil {
		return errorResponse(c, err)
	}

	if err := h.store.IncrementViews(id); err != nil {
		log.Printf("failed to count view for %s: %v", id, err)
	}

	return c.JSON(property)
}

// GetMyProperties retrieves the caller's own listings.
func (h *PropertyHandler) GetMyProperties(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)

	properties, err := h.store.GetPropertiesBySeller(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve properties",
		})
	}

	return c.JSON(fiber.Map{
		"properties": properties,
		"count":      len(properties),
	})
}

// UpdateProperty updates a listing; only the owning seller may do so.
func (h *PropertyHandler) UpdateProperty(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	id := c.Params("id")

	property, err := h.store.GetProperty(id)
	if err != nil {
		return errorResponse(c, err)
	}
	if property.SellerID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You are not authorized to update this property",
		})
	}

	var update models.Property
	if err := c.BodyParser(&update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if len(update.Images) > 0 &&
		(len(update.Images) < models.MinPropertyImages || len(update.Images) > models.MaxPropertyImages) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Between 1 and 20 images are required",
		})
	}

	applyPropertyUpdate(property, &update)

	if err := h.store.UpdateProperty(property); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update property",
		})
	}

	return c.JSON(fiber.Map{
		"message":  "Property updated successfully",
		"property": property,
	})
}

// DeleteProperty deletes a listing; only the owning seller may do so.
func (h *PropertyHandler) DeleteProperty(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	id := c.Params("id")

	property, err := h.store.GetProperty(id)
	if err != nil {
		return errorResponse(c, err)
	}
	if property.SellerID != userID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "You are not authorized to delete this property",
		})
	}

	if err := h.store.DeleteProperty(id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete property",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Property deleted successfully",
	})
}

// LikeProperty records one like per user; a repeat like is a conflict.
func (h *PropertyHandler) LikeProperty(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	id := c.Params("id")

	if err := h.store.LikeProperty(id, userID); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "Property liked",
	})
}

// ViewProperty increments the view counter.
func (h *PropertyHandler) ViewProperty(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.store.IncrementViews(id); err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "View counted",
	})
}

// UploadImages stores 1-20 multipart image files and returns their URLs.
func (h *PropertyHandler) UploadImages(c *fiber.Ctx) error {
	if h.uploads == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Image uploads are not configured",
		})
	}

	userID, _ := c.Locals("user_id").(string)
	user, err := h.store.GetUserByID(userID)
	if err != nil {
		return errorResponse(c, err)
	}
	if !user.CanListProperty() {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only verified sellers who accepted the terms can upload images",
		})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid multipart form",
		})
	}

	urls, err := h.uploads.UploadImages(c.Context(), form.File["images"])
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"urls":  urls,
		"count": len(urls),
	})
}

// applyPropertyUpdate copies the mutable listing fields onto the stored
// record. Engagement counters and ownership are never overwritten.
func applyPropertyUpdate(dst, src *models.Property) {
	dst.Title = src.Title
	dst.Description = src.Description
	dst.Type = src.Type
	dst.Subtype = src.Subtype
	dst.Bedrooms = src.Bedrooms
	dst.Bathrooms = src.Bathrooms
	dst.Balconies = src.Balconies
	dst.Floor = src.Floor
	dst.TotalFloors = src.TotalFloors
	dst.Facing = src.Facing
	dst.Age = src.Age
	dst.Location = src.Location
	dst.Street = src.Street
	dst.City = src.City
	dst.State = src.State
	dst.PostalCode = src.PostalCode
	dst.Country = src.Country
	dst.Latitude = src.Latitude
	dst.Longitude = src.Longitude
	dst.BuiltUpArea = src.BuiltUpArea
	dst.CarpetArea = src.CarpetArea
	dst.PlotArea = src.PlotArea
	dst.Price = src.Price
	dst.OwnershipType = src.OwnershipType
	dst.PossessionStatus = src.PossessionStatus
	if len(src.Images) > 0 {
		dst.Images = src.Images
	}
	if src.Status != "" {
		dst.Status = src.Status
	}
}
