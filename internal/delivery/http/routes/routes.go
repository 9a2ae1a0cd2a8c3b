package routes

import (
	"blog-api/internal/delivery/http/handler"
	"blog-api/internal/delivery/http/middleware"
	"blog-api/internal/ws"

	"github.com/gofiber/fiber/v3"
)

// Registry wires every handler into the fiber app. Handlers are injected so
// the registry stays free of construction logic.
type Registry struct {
	Health   *handler.HealthHandler
	Auth     *handler.AuthHandler
	Profile  *handler.ProfileHandler
	Post     *handler.PostHandler
	Comment  *handler.CommentHandler
	Taxonomy *handler.TaxonomyHandler
	Events   *ws.Handler

	AuthMW *middleware.AuthMiddleware
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.Health.RegisterRoutes(app)

	api := app.Group("/api")
	r.registerV1(api.Group("/v1"))
}

func (r *Registry) registerV1(v1 fiber.Router) {
	auth := v1.Group("/auth")
	r.Auth.RegisterRoutes(auth)

	r.Post.RegisterRoutes(v1)
	r.Comment.RegisterRoutes(v1)
	r.Taxonomy.RegisterRoutes(v1)

	if r.Events != nil {
		v1.Get("/ws/events", r.Events.HandleEventsWS)
	}

	protected := v1.Group("", r.AuthMW.Middleware())
	r.Auth.RegisterProtectedRoutes(protected.Group("/auth"))
	r.Profile.RegisterRoutes(protected)
	r.Post.RegisterProtectedRoutes(protected)
	r.Comment.RegisterProtectedRoutes(protected)
}
