package v1

import (
	"log"

	"skillmatch/internal/config"
	"skillmatch/internal/database"
	"skillmatch/internal/delivery/http/handler"
	"skillmatch/internal/delivery/http/middleware"
	"skillmatch/internal/pkg/jwt"
	"skillmatch/internal/repository"
	"skillmatch/internal/usecase"
	useruc "skillmatch/internal/usecase/user"

	"github.com/gofiber/fiber/v3"
)

func Register(r fiber.Router, cfg config.Config, db database.DB, cache usecase.MatchCache, notifier usecase.MatchNotifier, logger *log.Logger) {
	if r == nil {
		return
	}

	jwtSvc := jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)

	authMw := middleware.NewAuthMiddleware(jwtSvc)

	userRepo := repository.NewPostgresUserRepository(db)
	skillRepo := repository.NewPostgresSkillRepository(db)
	userSkillRepo := repository.NewPostgresUserSkillRepository(db)
	matchRepo := repository.NewPostgresMatchRepository(db)

	authUC := usecase.NewAuthUsecase(userRepo, jwtSvc)
	userUC := useruc.NewService(userRepo)
	skillUC := usecase.NewSkillUsecase(skillRepo, userSkillRepo, cache, logger)
	matchUC := usecase.NewMatchUsecase(skillRepo, userSkillRepo, matchRepo, userRepo, cache, notifier, logger)

	authHandler := handler.NewAuthHandler(authUC)
	userHandler := handler.NewUserHandler(userUC)
	skillHandler := handler.NewSkillHandler(skillUC)
	userSkillHandler := handler.NewUserSkillHandler(skillUC)
	matchHandler := handler.NewMatchHandler(matchUC)

	authGroup := r.Group("/auth")
	authHandler.RegisterRoutes(authGroup)

	protected := r.Group("", authMw.Middleware())

	usersGroup := protected.Group("/users")
	userHandler.RegisterRoutes(usersGroup)

	skillHandler.RegisterRoutes(protected)
	userSkillHandler.RegisterRoutes(protected)
	matchHandler.RegisterRoutes(protected)
}
