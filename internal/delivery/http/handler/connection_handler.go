package handler

import (
	"peer-match/internal/delivery/http/dto"
	"peer-match/internal/delivery/http/middleware"
	"peer-match/internal/pkg/response"
	"peer-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type ConnectionHandler struct {
	uc usecase.ConnectionUsecase
}

func NewConnectionHandler(uc usecase.ConnectionUsecase) *ConnectionHandler {
	return &ConnectionHandler{uc: uc}
}

func (h *ConnectionHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/connections/:user_id", h.List)
}

func (h *ConnectionHandler) List(c fiber.Ctx) error {
	ownerID, err := parseUserID(c.Params("user_id"))
	if err != nil {
		return err
	}
	if err := middleware.RequireSelf(c, ownerID); err != nil {
		return err
	}

	items, err := h.uc.ListConnections(c.Context(), ownerID)
	if err != nil {
		return mapUsecaseError(err)
	}

	out := make([]dto.ConnectionResponse, 0, len(items))
	for _, it := range items {
		names := it.SharedSkillNames
		if names == nil {
			names = []string{}
		}
		out = append(out, dto.ConnectionResponse{
			TargetID:         it.TargetID,
			DisplayName:      it.DisplayName,
			Email:            it.Email,
			ConnectedAt:      it.ConnectedAt,
			SharedSkillNames: names,
		})
	}
	return response.List(c, out)
}
