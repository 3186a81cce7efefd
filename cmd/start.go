package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"media-offload/core/loader"
	"media-offload/core/logger"
	"media-offload/core/middleware/auth"
	"media-offload/core/middleware/nonce"
	"media-offload/core/middleware/rayid"

	"media-offload/feature/integrity"
	"media-offload/feature/media"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "media-offload/docs/swagger"
)

// @title Media Offload API
// @version 1.0
// @description API for offloading CMS media to an S3 compatible bucket.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the media offload server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		rt, err := bootstrap()
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		logg := rt.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		if rt.unavailable != nil {
			logg.Warn("Media offload disabled, actions will answer 503", zap.Error(rt.unavailable))
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		mgr := loader.NewManager(logg)
		mgr.Register(media.NewFeature(rt.reconciler, rt.unavailable, nonce.NewStore(rt.cfg.Server.NonceTTL()), logg))
		mgr.Register(integrity.NewFeature(rt.store, rt.cfg.Storage.Bucket, rt.catalog, rt.cfg.Offload.UploadDir, logg))

		// RayID first so every log line carries it
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

		app.Use(auth.New(auth.Config{ApiKey: rt.cfg.Server.ApiKey, Skip: []string{"/swagger"}}))
		app.Get("/swagger/*", swagger.HandlerDefault)

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		go func() {
			logg.Info("Starting server", zap.String("port", rt.cfg.Server.Port))
			if err := app.Listen(":" + rt.cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

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
