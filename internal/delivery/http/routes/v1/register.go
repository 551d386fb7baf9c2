package v1

import (
	"peer-match/internal/delivery/http/handler"

	"github.com/gofiber/fiber/v3"
)

type Handlers struct {
	Matches     *handler.MatchHandler
	Connections *handler.ConnectionHandler
	Skills      *handler.SkillHandler
	UserSkills  *handler.UserSkillHandler
}

// Register mounts the public catalog routes and, behind auth when given,
// every route that acts on behalf of a user.
func Register(r fiber.Router, h Handlers, auth fiber.Handler) {
	if r == nil {
		return
	}

	if h.Skills != nil {
		h.Skills.RegisterRoutes(r)
	}

	protected := r
	if auth != nil {
		protected = r.Group("", auth)
	}

	if h.Matches != nil {
		h.Matches.RegisterRoutes(protected)
	}
	if h.Connections != nil {
		h.Connections.RegisterRoutes(protected)
	}
	if h.UserSkills != nil {
		h.UserSkills.RegisterRoutes(protected)
	}
}
