package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/gharnest/gharnest-backend/database"
	"github.com/gharnest/gharnest-backend/internal/jobs"
	"github.com/gharnest/gharnest-backend/internal/models"
	"github.com/gharnest/gharnest-backend/internal/routes"
	"github.com/gharnest/gharnest-backend/internal/services"
	"github.com/gharnest/gharnest-backend/internal/storage"
)

func main() {
	// Load .env file for local development
	if os.Getenv("INSTANCE_CONNECTION_NAME") == "" {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("⚠️  No .env file found - checking environment variables")
		}
	}

	// Initialize storage
	var store storage.Store

	if os.Getenv("USE_MEMORY_STORE") == "true" {
		log.Println("⚠️  Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		log.Println("📦 Connecting to PostgreSQL database...")
		database.Connect()

		log.Println("🔄 Running database migrations...")
		err := database.DB.AutoMigrate(
			&models.User{},
			&models.Property{},
			&models.PropertyLike{},
		)
		if err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		log.Println("✅ Database migrations completed!")

		store = storage.NewDatabaseStore(database.DB)
		log.Println("✅ Using PostgreSQL database storage")
	}
	storage.SetStore(store)

	// SMS delivery is optional: without Twilio credentials, only numbers
	// under the default country code (simulated delivery) can verify.
	var sms services.SMSSender
	twilioService, err := services.NewTwilioService()
	if err != nil {
		log.Printf("⚠️  Twilio not configured (%v) - OTP delivery limited to simulated numbers", err)
	} else {
		sms = twilioService
		log.Println("✅ Twilio service initialized")
	}

	var email services.EmailSender
	sendgridService, err := services.NewSendGridService()
	if err != nil {
		log.Printf("⚠️  SendGrid not configured (%v) - email OTP requests will fail", err)
	} else {
		email = sendgridService
		log.Println("✅ SendGrid service initialized")
	}

	// Email OTP cache: Redis when configured, in-memory otherwise
	var otpCache services.OTPCache
	if os.Getenv("REDIS_ADDR") != "" {
		otpCache = services.NewRedisOTPCache(services.OTPTTL)
		log.Println("✅ Using Redis OTP cache")
	} else {
		otpCache = services.NewMemoryOTPCache(services.OTPTTL)
		log.Println("⚠️  Using in-memory OTP cache (pending email OTPs lost on restart)")
	}

	verification := services.NewVerificationService(store, sms, email, otpCache)

	var uploads *services.UploadService
	uploads, err = services.NewUploadService(context.Background())
	if err != nil {
		log.Printf("⚠️  S3 not configured (%v) - image uploads disabled", err)
		uploads = nil
	}

	// Start scheduled OTP cleanup
	cleanupJob := jobs.NewCleanupJob(store)
	if err := cleanupJob.Start(); err != nil {
		log.Fatal("Failed to start cleanup job:", err)
	}

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "GharNest Backend v1.0.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	// Root endpoint with service status
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service":     "GharNest Backend API",
			"version":     "1.0.0",
			"status":      "healthy",
			"environment": getEnvironment(),
			"storage":     getStorageType(),
			"services": fiber.Map{
				"sms":     sms != nil,
				"email":   email != nil,
				"uploads": uploads != nil,
			},
		})
	})

	routes.SetupRoutes(app, store, verification, uploads, sms)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("\n🛑 Gracefully shutting down...")
		cleanupJob.Stop()
		_ = app.Shutdown()
	}()

	log.Println("========================================")
	log.Printf("🚀 GharNest Backend starting on port %s", port)
	log.Printf("📊 Storage: %s", getStorageType())
	log.Printf("🌍 Environment: %s", getEnvironment())
	log.Println("========================================")

	log.Fatal(app.Listen(":" + port))
}

func getEnvironment() string {
	if os.Getenv("INSTANCE_CONNECTION_NAME") != "" {
		return "Production (Cloud Run)"
	}
	return "Development (Local)"
}

func getStorageType() string {
	if os.Getenv("USE_MEMORY_STORE") == "true" {
		return "In-Memory (Testing)"
	}
	return "PostgreSQL Database"
}
