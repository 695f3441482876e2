package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ashmitsharp/dataexplorer-api/internal/config"
	"github.com/ashmitsharp/dataexplorer-api/internal/handlers"
	"github.com/ashmitsharp/dataexplorer-api/internal/middleware"
	"github.com/ashmitsharp/dataexplorer-api/internal/services"
	"github.com/ashmitsharp/dataexplorer-api/internal/utils"
	"github.com/gofiber/fiber/v3"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("✓ Configuration loaded (environment: %s)", cfg.Environment)

	// Initialize services
	parser := services.NewParser()
	log.Println("✓ Parser service initialized successfully")

	charts := services.NewChartRenderer(services.ChartOptions{
		Width:         cfg.ChartWidth,
		Height:        cfg.ChartHeight,
		HeatmapHeight: cfg.HeatmapHeight,
		HistogramBins: cfg.HistogramBins,
	})
	explorer := services.NewExplorer(parser, charts, cfg.PreviewRows)
	log.Println("✓ Explorer service initialized successfully")

	validator := services.NewFileValidator(cfg.MaxUploadBytes)
	log.Println("✓ File validator service initialized successfully")

	sessions := services.NewSessionStore(cfg.SessionTTL, cfg.MaxSessions)
	log.Printf("✓ Session store initialized (ttl: %s, capacity: %d)", cfg.SessionTTL, cfg.MaxSessions)

	// Initialize handlers
	pageHandler := handlers.NewExplorerHandler(validator, sessions, explorer, parser.SupportedExtensions())
	datasetHandler := handlers.NewDatasetHandler(validator, sessions, explorer)

	app := fiber.New(fiber.Config{
		AppName:      "data explorer API v1.0",
		ErrorHandler: utils.ErrorHandler,
		// multipart overhead on top of the file itself
		BodyLimit: int(cfg.MaxUploadBytes) + 1024*1024,
	})

	// Apply global middleware
	app.Use(recoverer.New())
	app.Use(middleware.RequestLogger(cfg.IsProduction(), nil))
	app.Use(middleware.CORS(cfg.AllowedOrigins))

	// Health check endpoint (public)
	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"service":  "dataexplorer-api",
			"sessions": sessions.Len(),
		})
	})

	// Explorer page
	app.Get("/", pageHandler.Index)
	app.Post("/upload", pageHandler.Upload)
	app.Get("/datasets/:id", pageHandler.Show)

	// API v1 routes
	v1 := app.Group("/v1")
	if cfg.EnableAuth {
		v1.Use(middleware.ClerkAuth(cfg.ClerkSecretKey))
		log.Println("✓ Clerk authentication enabled for /v1")
	}

	v1.Post("/datasets", datasetHandler.Create)
	v1.Get("/datasets/:id", datasetHandler.Get)
	v1.Get("/datasets/:id/rows", datasetHandler.Rows)
	v1.Get("/datasets/:id/charts/:kind", datasetHandler.Chart)
	v1.Delete("/datasets/:id", datasetHandler.Delete)

	log.Println("✓ All routes configured successfully")

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Println("Shutting down server...")
		if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
			log.Printf("Warning: shutdown did not complete cleanly: %v", err)
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Println("")
	log.Printf("🚀 data explorer is running on %s", addr)
	log.Printf("   Explorer: http://localhost%s/", addr)
	log.Printf("   API base: http://localhost%s/v1", addr)
	if err := app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
	log.Println("✓ Server stopped")
}
