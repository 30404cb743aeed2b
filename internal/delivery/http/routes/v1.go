package routes

import (
	"log"

	"skillmatch/internal/config"
	"skillmatch/internal/database"
	v1 "skillmatch/internal/delivery/http/routes/v1"
	"skillmatch/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

func RegisterV1(r fiber.Router, cfg config.Config, db database.DB, cache usecase.MatchCache, notifier usecase.MatchNotifier, logger *log.Logger) {
	if r == nil {
		return
	}

	v1.Register(r, cfg, db, cache, notifier, logger)
}
