package main

import (
	"context"
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"

	"github.com/Manav108-hub/backend-hackathon/analytics"
	"github.com/Manav108-hub/backend-hackathon/config"
	"github.com/Manav108-hub/backend-hackathon/database"
	"github.com/Manav108-hub/backend-hackathon/handlers"
	"github.com/Manav108-hub/backend-hackathon/routes"
	"github.com/Manav108-hub/backend-hackathon/seed"
	"github.com/Manav108-hub/backend-hackathon/store"
)

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	// Load configuration
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	config.Load()
	if config.AppConfig.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}
	if config.AppConfig.GeminiAPIKey == "" {
		log.Println("GEMINI_API_KEY is not set, analytics will rely on the fallback model")
	}

	// Initialize database
	database.Connect(databaseURL)
	defer database.Close()

	st := store.New(database.GetDB())

	// Wire the analytics engine. The vision client is optional: without
	// credentials only the shelf-image endpoint is unavailable.
	var vision analytics.VisionClient
	if vc, err := analytics.NewGoogleVisionClient(context.Background()); err != nil {
		log.Printf("Vision client not available: %v", err)
	} else {
		vision = vc
	}

	engine := analytics.NewEngine(
		analytics.NewResponseCache(config.AppConfig.CacheFile),
		analytics.NewGeminiGenerator(config.AppConfig.GeminiAPIKey),
		vision,
	)

	// Optional scheduled demo-data refresh
	if spec := config.AppConfig.SeedSchedule; spec != "" {
		if _, err := seed.Schedule(spec, st); err != nil {
			log.Fatalf("Failed to schedule demo seeding: %v", err)
		}
		log.Printf("Demo data seeding scheduled: %s", spec)
	}

	app := fiber.New()

	// Add CORS middleware
	app.Use(cors.New())

	// Setup routes
	routes.SetupRoutes(app, handlers.NewAnalyticsHandler(st, engine))

	// Start server
	log.Fatal(app.Listen(":3000"))
}
