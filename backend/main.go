package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"sqlify/backend/chat"
	"sqlify/backend/config"
	"sqlify/backend/middleware"
	"sqlify/backend/models"
	"sqlify/backend/routes"
	"sqlify/backend/session"
	"sqlify/backend/storage"
	"sqlify/backend/upstream"
	"sqlify/backend/utils"
	"sqlify/backend/viewstate"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize local storage (the browser-localStorage analog)
	local, err := storage.Open(cfg.StoragePath)
	if err != nil {
		log.Fatalf("Error opening local storage: %v", err)
	}

	// Initialize logger
	logger := utils.InitLogger()

	sessions := session.NewStore(local)
	pages := viewstate.NewRegistry()
	transcript := chat.NewTranscript()

	// Logout resets every page and the chat transcript.
	sessions.Subscribe(func(s models.Session) {
		if s.Role == models.RoleGuest {
			pages.Reset()
			transcript.Clear()
		}
	})

	api := upstream.NewClient(cfg.APIBaseURL, cfg.ChatAPIURL, cfg.RequestTimeout, sessions, logger)

	// Create Fiber app
	app := fiber.New()

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	routes.SetupRoutes(app, api, sessions, pages, transcript)

	// Start server
	log.Fatal(app.Listen(":" + cfg.ServerPort))
}
