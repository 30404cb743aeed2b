package routes

import (
	"log"

	"skillmatch/internal/config"
	"skillmatch/internal/database"
	"skillmatch/internal/delivery/http/handler"
	"skillmatch/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	cfg      config.Config
	db       database.DB
	cache    usecase.MatchCache
	notifier usecase.MatchNotifier
	logger   *log.Logger

	health *handler.HealthHandler
}

func NewRegistry(cfg config.Config, db database.DB, cache usecase.MatchCache, notifier usecase.MatchNotifier, logger *log.Logger) *Registry {
	return &Registry{
		cfg:      cfg,
		db:       db,
		cache:    cache,
		notifier: notifier,
		logger:   logger,
		health:   handler.NewHealthHandler(db),
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.health.RegisterRoutes(app)

	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.cfg, r.db, r.cache, r.notifier, r.logger)
}
