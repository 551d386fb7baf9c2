package routes

import (
	"peer-match/internal/delivery/http/handler"
	"peer-match/internal/delivery/http/middleware"
	v1 "peer-match/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
)

func RegisterV1(r fiber.Router, deps Deps) {
	if r == nil {
		return
	}

	var auth fiber.Handler
	if deps.JWT != nil {
		auth = middleware.NewAuthMiddleware(deps.JWT).Middleware()
	}

	v1.Register(r, v1.Handlers{
		Matches:     handler.NewMatchHandler(deps.Matching, deps.Connections),
		Connections: handler.NewConnectionHandler(deps.Connections),
		Skills:      handler.NewSkillHandler(deps.Skills),
		UserSkills:  handler.NewUserSkillHandler(deps.UserSkills),
	}, auth)
}
