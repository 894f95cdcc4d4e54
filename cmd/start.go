package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"report-manager/core/config"
	"report-manager/core/database"
	"report-manager/core/loader"
	"report-manager/core/logger"
	"report-manager/core/middleware/auth"
	"report-manager/core/middleware/rayid"
	"report-manager/core/storage"

	"report-manager/feature/media"
	"report-manager/feature/report"
	"report-manager/feature/stock"
	"report-manager/feature/stock/pos"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "report-manager/docs/swagger"
)

// @title Report Manager API
// @version 1.0
// @description API for daily stock reconciliation reports.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the report manager server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Database (required, everything persists here)
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}

		// 4. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We log our own startup message
		})

		// 5. Initialize Storage (optional; without it the media feature
		// stays disabled and measurements simply carry no photos)
		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Warn("Optional storage connection failed, media disabled", zap.Error(err))
			store = nil
		}

		// 6. Initialize Feature Loader
		mgr := loader.NewManager()

		// Register Features. The stock engine drives report submission,
		// so it shares the report feature's service.
		posClient := pos.NewClient(db, cfg.POS, logg)
		reports := report.NewFeature(db, logg)
		mgr.Register(reports)
		mgr.Register(media.NewFeature(store, cfg.Storage.Bucket, logg))
		mgr.Register(stock.NewFeature(db, posClient, reports.Service(), logg))

		// Middleware Registration
		// 1. RayID (first, so everything is traceable)
		app.Use(rayid.New())

		// 2. Request logging with Zap + RayID
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 3. Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 4. Auth (every API request carries a staff or admin key)
		app.Use(auth.New(auth.Config{
			Resolve: func(token string) (auth.Principal, bool) {
				role := cfg.Server.ResolveRole(token)
				if role == "" {
					return auth.Principal{}, false
				}
				return auth.Principal{ID: role, Role: role}, true
			},
		}))

		// 5. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 6. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 7. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
