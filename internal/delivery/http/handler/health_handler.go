package handler

import (
	"context"
	"time"

	"peer-match/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    Pinger
	cache Pinger
}

// NewHealthHandler reports the database as required and the cache as
// optional: a missing cache degrades the response but keeps it 200.
func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Check)
}

func (h *HealthHandler) Check(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{"database": "up", "cache": "up"}
	code := fiber.StatusOK

	if h.db == nil || h.db.Ping(ctx) != nil {
		status["database"] = "down"
		code = fiber.StatusServiceUnavailable
	}
	if h.cache == nil || h.cache.Ping(ctx) != nil {
		status["cache"] = "bypassed"
	}

	if code != fiber.StatusOK {
		return response.Reply(c, code, "unhealthy", status)
	}
	return response.OK(c, status)
}
