// main.go
//
// MealBridge donation-matching data service.

package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"

	"github.com/mealbridge/mealbridge/internal/config"
	"github.com/mealbridge/mealbridge/internal/database"
	"github.com/mealbridge/mealbridge/internal/handlers"
	"github.com/mealbridge/mealbridge/internal/middleware"
	"github.com/mealbridge/mealbridge/internal/services"
	"github.com/mealbridge/mealbridge/internal/types"
	"github.com/mealbridge/mealbridge/internal/utils"

	_ "github.com/mealbridge/mealbridge/docs/api" // Swagger docs
)

// @title MealBridge API
// @version 1.0.0
// @description Donation-matching service: donors post surplus-food listings, NGOs claim and collect them
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/mealbridge/mealbridge

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name mb_session

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// The store is the single owner of all listing state; everything below
	// receives it explicitly.
	var storeOpts []services.Option
	if cfg.StrictLifecycle {
		storeOpts = append(storeOpts, services.WithStrictLifecycle())
	}
	store := services.NewStore(db, storeOpts...)

	if cfg.SeedDemo {
		if err := store.SeedDemo(); err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("mealbridge")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API routes under /api
	api := app.Group("/api")
	api.Use(middleware.VersionMiddleware())
	api.Use(middleware.Session(cfg, store))

	donationHandler := &handlers.DonationHandler{Store: store}
	authHandler := &handlers.AuthHandler{Store: store}

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Get("/user", authHandler.CurrentUser)
	auth.Post("/logout", authHandler.Logout)

	// Donation routes. Reads are public; writes require a role only when
	// enforcement is switched on (the legacy deployment ran them open).
	donations := api.Group("/donations")
	donations.Get("/", donationHandler.ListDonations)
	donations.Get("/:id", donationHandler.GetDonation)
	if cfg.AuthEnforce {
		donations.Post("/", middleware.RequireRole("donor"), donationHandler.CreateDonation)
		donations.Patch("/:id/status", middleware.RequireRole("ngo"), donationHandler.UpdateDonationStatus)
	} else {
		donations.Post("/", donationHandler.CreateDonation)
		donations.Patch("/:id/status", donationHandler.UpdateDonationStatus)
	}

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return utils.NotFoundResponse(c, "Resource not found")
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	// Start server
	log.Printf("Starting server on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// customErrorHandler handles errors escaping handlers and middleware,
// keeping the {message} / {message, field} wire shapes of the API.
func customErrorHandler(c *fiber.Ctx, err error) error {
	if ce, ok := err.(*types.CustomError); ok {
		return utils.ErrorResponse(c, ce)
	}
	if e, ok := err.(*fiber.Error); ok {
		return c.Status(e.Code).JSON(utils.MessageResponseStruct{Message: e.Message})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(utils.MessageResponseStruct{Message: err.Error()})
}
