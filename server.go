package main

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"salesdash/config"
	"salesdash/database"
	"salesdash/handlers"
	"salesdash/middleware"
	"salesdash/repository"
	"salesdash/routes"
)

// openStore connects the configured backend, applying migrations first when
// enabled. The returned func releases the connection.
func openStore(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (repository.Store, func(), error) {
	switch cfg.Driver {
	case database.DriverMemory:
		log.Warn("Using the in-memory store; data is lost on restart")
		return repository.NewMemoryStore(), func() {}, nil
	case database.DriverPostgres, database.DriverMySQL:
	default:
		return nil, nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Driver)
	}

	if cfg.URL == "" {
		return nil, nil, errors.New("DATABASE_URL is not set")
	}
	if cfg.RunMigrations {
		if err := database.Migrate(cfg.Driver, cfg.URL, log); err != nil {
			return nil, nil, err
		}
	}

	if cfg.Driver == database.DriverMySQL {
		db, err := database.ConnectMySQL(ctx, cfg.URL, cfg.MaxConns)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Connected to MySQL")
		return repository.NewMySQLStore(db), func() { _ = db.Close() }, nil
	}

	pool, err := database.ConnectPostgres(ctx, cfg.URL, cfg.MaxConns)
	if err != nil {
		return nil, nil, err
	}
	log.Info("Connected to Postgres")
	return repository.NewPostgresStore(pool), pool.Close, nil
}

// newServer builds the fiber app: shared middleware, the public health
// endpoints and the authenticated API.
func newServer(cfg config.Config, store repository.Store, h *handlers.Handler, log *zap.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "salesdash",
		ErrorHandler: errorHandler(log),
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.RequestLogger(log))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "success", "data": fiber.Map{"status": "ok"}})
	})

	app.Get("/version", func(c *fiber.Ctx) error {
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return c.Status(500).SendString("no build information available")
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTML)
		return c.SendString("<pre>\n" + info.String() + "</pre>\n")
	})

	app.Get("/db", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 3*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			log.Error("Database ping failed", zap.Error(err))
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "error", "message": "Database ping failed"})
		}
		return c.JSON(fiber.Map{"status": "success", "data": fiber.Map{"database": cfg.Database.Driver}})
	})

	routes.SetupRoutes(app, h)
	return app
}

// errorHandler renders errors that escape handlers, such as unknown routes,
// in the API's JSON envelope.
func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		message := "Internal server error"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code, message = fe.Code, fe.Message
		} else {
			log.Error("Unhandled error", zap.String("path", c.Path()), zap.Error(err))
		}
		return c.Status(code).JSON(fiber.Map{"status": "error", "message": message})
	}
}
