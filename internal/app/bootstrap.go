package app

import (
	"fmt"
	"strings"

	"skillmatch/internal/config"
	"skillmatch/internal/delivery/http/middleware"
	"skillmatch/internal/delivery/http/routes"
	"skillmatch/internal/pkg/jwt"
	"skillmatch/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber *fiber.App
}

func New(container *Container) *App {
	cfg := container.Config
	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})

	registerGlobalMiddleware(f, container)
	registerRoutes(f, container)

	return &App{Fiber: f}
}

// Bootstrap builds the app and starts the websocket hub; the returned cleanup
// releases the container's connections.
func Bootstrap(cfg config.Config) (*App, func() error, error) {
	container, err := NewContainer(cfg)
	if err != nil {
		return nil, nil, err
	}

	go container.Hub.Run()

	app := New(container)
	return app, container.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, container *Container) {
	if app == nil {
		return
	}

	app.Use(middleware.NewErrorMiddleware().Middleware())
	app.Use(middleware.NewAccessLogMiddleware(container.Logger).Middleware())
}

func registerRoutes(app *fiber.App, container *Container) {
	if app == nil {
		return
	}

	cfg := container.Config
	notifier := ws.NewNotifier(container.Hub)

	registry := routes.NewRegistry(cfg, container.DB, container.Cache, notifier, container.Logger)
	registry.Register(app)

	jwtSvc := jwt.NewHMACService(
		cfg.JWT.AccessSecret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessExpiresIn,
		cfg.JWT.RefreshExpiresIn,
	)
	wsHandler := ws.NewHandler(container.Hub, jwtSvc, container.Logger)
	app.Get("/ws", wsHandler.HandleEvents)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
