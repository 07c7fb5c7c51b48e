package main

import (
	"context"
	"errors"

	_ "learnflow/cmd/api/docs"
	"learnflow/internal/catalog"
	"learnflow/internal/config"
	"learnflow/internal/domain"
	"learnflow/internal/events"
	"learnflow/internal/handler"
	"learnflow/internal/middleware"
	"learnflow/internal/service"
	"learnflow/internal/validation"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

type server struct {
	app      *fiber.App
	bus      *gochannel.GoChannel
	playback service.PlaybackService
}

func newServer(cfg *config.Config, content *catalog.Catalog, store domain.Cache, appLogger *zap.Logger) *server {
	bus := events.NewBus(events.NewZapLoggerAdapter(appLogger.Named("watermill")))
	notifier := events.NewToastPublisher(bus, cfg.Events.ToastTopic, appLogger)

	validator := validation.NewValidator()
	quizService := service.NewQuizSessionService(content, store, notifier, cfg.Session.TTL)
	playbackService := service.NewPlaybackService(content, cfg.Playback.TickInterval, cfg.Playback.IdleTTL, cfg.Playback.MaxViews)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
		ErrorHandler: middleware.ErrorHandler(),
	})
	app.Use(middleware.RequestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept", MaxAge: 300}))
	app.Use(recover.New())

	app.Get("/swagger/*", swagger.HandlerDefault)
	handler.RegisterRoutes(app,
		middleware.NewValidationMiddleware(validator),
		handler.NewQuizHandler(quizService, validator),
		handler.NewPlaybackHandler(playbackService, validator),
		handler.NewHealthHandler(store),
	)

	return &server{app: app, bus: bus, playback: playbackService}
}

// shutdown stops accepting requests, then unmounts players and closes the bus.
func (s *server) shutdown(ctx context.Context) error {
	err := s.app.ShutdownWithContext(ctx)
	s.playback.Shutdown()
	return errors.Join(err, s.bus.Close())
}
