package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/utils"
	"github.com/rs/zerolog/log"

	"seletivo_backend/internals/configs"
	database "seletivo_backend/internals/databases"
	"seletivo_backend/internals/events"
	"seletivo_backend/internals/helpers/logger"
	middlewares "seletivo_backend/internals/middlewares"
	routes "seletivo_backend/internals/route"
	routeDetails "seletivo_backend/internals/route/details"
	"seletivo_backend/internals/seeds"
)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	configs.LoadEnv()

	app := fiber.New(fiber.Config{
		JSONEncoder:             sonic.Marshal,
		JSONDecoder:             sonic.Unmarshal,
		DisableStartupMessage:   true,
		ProxyHeader:             fiber.HeaderXForwardedFor,
		EnableTrustedProxyCheck: true,
		TrustedProxies:          []string{"0.0.0.0/0"},
	})

	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())

	// request id + timing
	app.Use(func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)
		start := time.Now()
		// matches statement_timeout on the DB side
		ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()
		c.SetUserContext(ctx)
		err := c.Next()
		log.Debug().
			Str("reqid", id).
			Str("method", c.Method()).
			Str("url", c.OriginalURL()).
			Int("status", c.Response().StatusCode()).
			Dur("dur", time.Since(start)).
			Msg("request")
		return err
	})

	middlewares.SetupMiddlewares(app)

	// DB connect + pool + warm-up
	db, err := database.ConnectDB()
	if err != nil {
		log.Fatal().Err(err).Msg("database")
	}
	db.TunePool()
	db.WarmUp()
	if configs.GetEnvBool("DB_AUTO_MIGRATE", true) {
		if err := database.Migrate(db.Gorm()); err != nil {
			log.Fatal().Err(err).Msg("migrate")
		}
	}
	if configs.GetEnvBool("RUN_SEEDS", false) {
		seeds.RunAllSeeds(db.Gorm())
	}

	pub, err := events.NewEventPublisher(configs.RabbitMQURL)
	if err != nil {
		// events are optional; keep serving without them
		log.Error().Err(err).Msg("rabbitmq unavailable, events disabled")
		pub, _ = events.NewEventPublisher("")
	}

	routes.SetupRoutes(app, routeDetails.Deps{
		DB:        db,
		Publisher: pub,
		Invite:    configs.LoadInviteConfig(),
		JWTSecret: configs.JWTSecret,
	})

	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	port := configs.GetEnv("PORT", "3000")

	go func() {
		log.Info().Str("port", port).Msg("✅ Listening")
		if err := app.Listen("0.0.0.0:" + port); err != nil {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)

	if err := pub.Close(); err != nil {
		log.Warn().Err(err).Msg("close publisher")
	}
	_ = db.Close()
}
