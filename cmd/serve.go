package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"metadata-harvester/core/config"
	"metadata-harvester/core/database"
	"metadata-harvester/core/loader"
	"metadata-harvester/core/logger"
	"metadata-harvester/core/metrics"
	"metadata-harvester/core/middleware/auth"
	"metadata-harvester/core/middleware/rayid"
	"metadata-harvester/core/storage"
	"metadata-harvester/feature/harvest"
	"metadata-harvester/feature/harvest/models"
	"metadata-harvester/feature/harvest/sta"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the metadata harvester server",
	Long:  `Starts the HTTP server serving records, STAC items, and the DCAT catalog, refreshing them on demand.`,
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

		// 3. Connect to the run-history database (optional)
		var db *gorm.DB
		if cfg.Database.Enabled {
			if conn, err := database.Connect(cfg.Database); err != nil {
				logg.Warn("Optional database connection failed", zap.Error(err))
			} else if err := conn.AutoMigrate(&models.HarvestRun{}); err != nil {
				logg.Warn("Run-history migration failed", zap.Error(err))
			} else {
				db = conn
				logg.Info("Connected to run-history database")
			}
		}

		// 4. Create the artifact mirror (optional)
		var mirror storage.Client
		if cfg.Storage.Enabled {
			client, err := storage.NewClient(cfg.Storage)
			if err != nil {
				logg.Warn("Optional storage client creation failed", zap.Error(err))
			} else if err := storage.EnsureBucket(cmd.Context(), client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
				logg.Warn("Optional storage bucket check failed", zap.Error(err))
			} else {
				mirror = client
				logg.Info("Mirroring harvest artifacts", zap.String("bucket", cfg.Storage.Bucket))
			}
		}

		// 5. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 6. Upstream client and metrics
		fetcher := sta.NewClient(sta.Options{
			Endpoint: cfg.Harvest.Endpoint,
			Token:    cfg.Harvest.Token,
			Username: cfg.Harvest.Username,
			Password: cfg.Harvest.Password,
			Timeout:  time.Duration(cfg.Harvest.TimeoutSeconds) * time.Second,
		}, logg)
		m := metrics.New()

		// 7. Feature registration
		mgr := loader.NewManager()
		mgr.Register(harvest.NewFeature(cfg.Harvest, fetcher, db, mirror, cfg.Storage.Bucket, m, logg))

		// Middleware: ray ids first so everything is traceable
		app.Use(rayid.New())

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

		// Metrics stay public; the API itself is key-protected when configured.
		app.Get("/metrics", m.Handler())
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 8. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 9. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
