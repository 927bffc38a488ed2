package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Abraxas-365/bitwork/marketplace/application/applicationapi"
	"github.com/Abraxas-365/bitwork/marketplace/job/jobapi"
	"github.com/Abraxas-365/bitwork/marketplace/message/messageapi"
	"github.com/Abraxas-365/bitwork/marketplace/notification/notificationapi"
	"github.com/Abraxas-365/bitwork/marketplace/profile/profileapi"
	"github.com/Abraxas-365/bitwork/pkg/fsx"
	"github.com/Abraxas-365/bitwork/pkg/logx"
	"github.com/Abraxas-365/bitwork/pkg/respx"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// memFilesPrefix is where in-memory uploads are served from
const memFilesPrefix = "/files"

const shutdownTimeout = 10 * time.Second

// NewServer builds the HTTP application on top of a container
func NewServer(container *Container) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Bitwork API",
		DisableStartupMessage: true,
		ErrorHandler:          respx.ErrorHandler,
		BodyLimit:             6 << 20, // avatar uploads plus form overhead
	})

	// Global Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, PATCH, HEAD",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	// Health Check
	app.Get("/health", func(c *fiber.Ctx) error {
		services := container.Health(c.UserContext())
		status := "ok"
		for _, up := range services {
			if !up {
				status = "degraded"
			}
		}
		return respx.OK(c, fiber.Map{
			"status":   status,
			"services": services,
		})
	})

	// Register Routes
	profileapi.RegisterRoutes(app, container.ProfileHandlers, container.AuthMiddleware)
	jobapi.RegisterRoutes(app, container.JobHandlers, container.AuthMiddleware)
	applicationapi.RegisterRoutes(app, container.ApplicationHandlers, container.AuthMiddleware)
	notificationapi.RegisterRoutes(app, container.NotificationHandlers, container.AuthMiddleware)
	messageapi.RegisterRoutes(app, container.MessageHandlers, container.AuthMiddleware)

	if memFS, ok := container.FileSystem.(*fsx.MemFS); ok {
		app.Get(memFilesPrefix+"/*", serveMemFile(memFS))
	}

	return app
}

func serveMemFile(fs *fsx.MemFS) fiber.Handler {
	return func(c *fiber.Ctx) error {
		data, err := fs.ReadFile(c.UserContext(), c.Params("*"))
		if err != nil {
			if errors.Is(err, fsx.ErrNotExist) {
				return fiber.ErrNotFound
			}
			return err
		}
		c.Set(fiber.HeaderContentType, http.DetectContentType(data))
		return c.Send(data)
	}
}

// runServer serves until ctx is cancelled or the process receives
// SIGINT/SIGTERM, then shuts down gracefully
func runServer(ctx context.Context, container *Container) error {
	app := NewServer(container)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logx.Infof("Server listening on %s", container.Config.Addr)
		errCh <- app.Listen(container.Config.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logx.Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logx.Errorf("Server forced to shutdown: %v", err)
		return err
	}
	if err := <-errCh; err != nil {
		return err
	}

	logx.Info("Server exited")
	return nil
}
