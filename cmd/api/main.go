package main

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberws "github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"taskease/configs"
	v1 "taskease/internal/api/v1"
	"taskease/internal/api/v1/handlers"
	"taskease/internal/auth"
	"taskease/internal/middleware"
	"taskease/internal/repository"
	"taskease/internal/service"
	ws "taskease/internal/websocket"
	"taskease/pkg/database"
	"taskease/pkg/logger"
)

func main() {
	logger.InitLoggers()
	defer logger.SyncLoggers()
	logger.SystemLogger.Info("Starting application", zap.String("time", time.Now().Format(time.RFC3339)))

	cfg := configs.LoadConfig()
	if cfg.JWTSecret == "" {
		logger.ErrorLogger.Fatal("JWT_SECRET is not set, refusing to start")
	}

	db := database.ConnectDB(cfg)
	defer db.Close()
	logger.SystemLogger.Info("Database connected")

	repository.CreateTableIfNotExists(db)
	store := repository.NewPostgres(db)

	cache := database.ConnectRedis(cfg)
	if cache != nil {
		defer cache.Close()
	}

	verifier := auth.NewVerifier([]byte(cfg.JWTSecret), cfg.TokenTTL)

	hub := ws.NewHub()
	go hub.Run()

	owned := service.NewResolver(store)
	h := handlers.New(
		service.NewAuthService(store.Users, verifier),
		service.NewUserService(store.Users),
		service.NewTaskService(store, owned, cache, hub),
		service.NewCategoryService(store, owned),
		service.NewNoteService(store, owned),
	)

	app := fiber.New()

	app.Use(middleware.ErrorHandler())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
	}))
	app.Use(middleware.Guard(verifier))

	v1.RegisterRoutes(app, h)

	// WebSocket: task change notifications for the authenticated user. The
	// guard has already verified the token by the time the upgrade runs.
	app.Use("/ws", func(c *fiber.Ctx) error {
		if fiberws.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", fiberws.New(func(c *fiberws.Conn) {
		ident, ok := c.Locals(middleware.IdentityKey).(auth.Identity)
		if !ok {
			c.Close()
			return
		}
		client := &ws.Client{Conn: c, UserID: ident.SubjectID}
		hub.Register <- client
		defer func() {
			hub.Unregister <- client
		}()
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.SystemLogger.Info("Application ready", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		logger.ErrorLogger.Error("Application failed to start", zap.Error(err))
	}
}
