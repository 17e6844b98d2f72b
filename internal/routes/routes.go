package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gharnest/gharnest-backend/internal/handlers"
	"github.com/gharnest/gharnest-backend/internal/middleware"
	"github.com/gharnest/gharnest-backend/internal/services"
	"github.com/gharnest/gharnest-backend/internal/storage"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, store storage.Store, verification *services.VerificationService,
	uploads *services.UploadService, sms services.SMSSender) {

	sellerHandler := handlers.NewSellerHandler(store, verification)
	propertyHandler := handlers.NewPropertyHandler(store, uploads)
	adminHandler := handlers.NewAdminHandler(store, verification, sms)
	healthHandler := handlers.NewHealthHandler("1.0.0")

	app.Get("/health", healthHandler.Check)

	// ========== SELLER VERIFICATION WORKFLOW ==========
	properties := app.Group("/properties")

	// OTP request/verify endpoints are unauthenticated; everything else
	// on the workflow requires a bearer token.
	properties.Put("/update-phone", sellerHandler.UpdatePhone)
	properties.Post("/verify-otp", sellerHandler.VerifyOTP)
	properties.Post("/emailOTP", sellerHandler.EmailOTP)
	properties.Post("/verify-email", sellerHandler.VerifyEmail)

	properties.Put("/update-Seller", middleware.Protected(), sellerHandler.UpdateSeller)
	properties.Put("/update-profile", middleware.Protected(), sellerHandler.UpdateProfile)
	properties.Get("/check_Verified_Seller", middleware.Protected(), sellerHandler.CheckVerifiedSeller)
	properties.Put("/accept-terms", middleware.Protected(), sellerHandler.AcceptTerms)

	// ========== LISTINGS ==========
	properties.Get("/getProperties", propertyHandler.GetProperties)
	properties.Get("/searchProperties", propertyHandler.SearchProperties)
	properties.Get("/my-properties", middleware.Protected(), propertyHandler.GetMyProperties)
	properties.Post("/upload-images", middleware.Protected(), propertyHandler.UploadImages)
	properties.Post("/", middleware.Protected(), propertyHandler.CreateProperty)
	properties.Get("/:id", propertyHandler.GetProperty)
	properties.Put("/:id", middleware.Protected(), propertyHandler.UpdateProperty)
	properties.Delete("/:id", middleware.Protected(), propertyHandler.DeleteProperty)
	properties.Post("/:id/like", middleware.Protected(), propertyHandler.LikeProperty)
	properties.Post("/:id/view", propertyHandler.ViewProperty)

	// ========== ADMIN ROUTES ==========
	user := app.Group("/user")
	user.Put("/admin-verify-seller/:id", middleware.Protected(), middleware.AdminOnly(), adminHandler.VerifySeller)
	user.Get("/pending-sellers", middleware.Protected(), middleware.AdminOnly(), adminHandler.GetPendingSellers)
}
