package routes

import (
	"peer-match/internal/delivery/http/handler"
	"peer-match/internal/pkg/jwt"
	"peer-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

// Deps carries everything the API routes need. JWT is optional; a nil
// service leaves the routes unauthenticated.
type Deps struct {
	Matching    usecase.MatchingUsecase
	Connections usecase.ConnectionUsecase
	Skills      usecase.SkillUsecase
	UserSkills  usecase.UserSkillUsecase

	DB    handler.Pinger
	Cache handler.Pinger
	JWT   jwt.Service
}

type Registry struct {
	health *handler.HealthHandler
	deps   Deps
}

func NewRegistry(deps Deps) *Registry {
	return &Registry{health: handler.NewHealthHandler(deps.DB, deps.Cache), deps: deps}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	r.health.RegisterRoutes(app)
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	v1 := api.Group("/v1")
	r.health.RegisterRoutes(v1)
	RegisterV1(v1, r.deps)
}
