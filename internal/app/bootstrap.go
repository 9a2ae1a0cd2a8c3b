package app

import (
	"fmt"
	"strings"

	"blog-api/internal/config"
	"blog-api/internal/delivery/http/handler"
	"blog-api/internal/delivery/http/middleware"
	"blog-api/internal/delivery/http/routes"
	persistence "blog-api/internal/infrastructure/persistence/postgres"
	"blog-api/internal/pkg/jwt"
	"blog-api/internal/usecase"
	ucauth "blog-api/internal/usecase/auth"
	ucprofile "blog-api/internal/usecase/profile"
	"blog-api/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber *fiber.App
}

// Bootstrap builds the container, wires usecases into handlers, and returns
// the app plus a cleanup closure.
func Bootstrap(cfg config.Config) (*App, func() error, error) {
	c, err := NewContainer(cfg, nil)
	if err != nil {
		return nil, nil, err
	}

	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})

	errMw := middleware.NewErrorMiddleware()
	accessMw := middleware.NewAccessLogMiddleware(c.Logger)
	f.Use(errMw.Middleware())
	f.Use(accessMw.Middleware())

	registry := buildRegistry(c)
	registry.Register(f)

	return &App{Fiber: f}, c.Close, nil
}

func buildRegistry(c *Container) *routes.Registry {
	accounts := persistence.NewAccountRepository(c.DB)
	profiles := persistence.NewProfileRepository(c.DB)
	posts := persistence.NewPostRepository(c.DB)
	comments := persistence.NewCommentRepository(c.DB)
	taxonomies := persistence.NewTaxonomyRepository(c.DB)

	jwtSvc := jwt.NewHMACService(
		c.Config.JWT.AccessSecret,
		c.Config.JWT.RefreshSecret,
		c.Config.JWT.AccessExpiresIn,
		c.Config.JWT.RefreshExpiresIn,
	)

	notifier := ws.NewNotifier(c.Hub)

	authSvc := ucauth.NewService(accounts, c.Cache, c.Mailer, c.Config.App.BaseURL, c.Logger)
	authUC := usecase.NewAuthUsecase(authSvc, accounts, profiles, jwtSvc, c.Cache)
	profileUC := ucprofile.NewService(accounts, profiles, c.Storage, c.Logger)
	postUC := usecase.NewPostUsecase(posts, profiles, c.Cache, notifier, c.Logger)
	commentUC := usecase.NewCommentUsecase(comments, posts, profiles, notifier)
	taxonomyUC := usecase.NewTaxonomyUsecase(taxonomies)

	return &routes.Registry{
		Health:   handler.NewHealthHandler(c.DB),
		Auth:     handler.NewAuthHandler(authUC),
		Profile:  handler.NewProfileHandler(profileUC),
		Post:     handler.NewPostHandler(postUC),
		Comment:  handler.NewCommentHandler(commentUC),
		Taxonomy: handler.NewTaxonomyHandler(taxonomyUC),
		Events:   ws.NewHandler(c.Hub, c.Logger),
		AuthMW:   middleware.NewAuthMiddleware(jwtSvc),
	}
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
