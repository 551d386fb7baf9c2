package handler

import (
	"errors"

	"peer-match/internal/delivery/http/dto"
	"peer-match/internal/delivery/http/middleware"
	"peer-match/internal/pkg/response"
	"peer-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type MatchHandler struct {
	matching    usecase.MatchingUsecase
	connections usecase.ConnectionUsecase
}

func NewMatchHandler(matching usecase.MatchingUsecase, connections usecase.ConnectionUsecase) *MatchHandler {
	return &MatchHandler{matching: matching, connections: connections}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/matches")
	grp.Post("/connect", h.Connect)
	grp.Get("/:user_id", h.Rank)
}

func (h *MatchHandler) Rank(c fiber.Ctx) error {
	userID, err := parseUserID(c.Params("user_id"))
	if err != nil {
		return err
	}
	if err := middleware.RequireSelf(c, userID); err != nil {
		return err
	}

	items, err := h.matching.Rank(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}

	out := make([]dto.CandidateResponse, 0, len(items))
	for _, it := range items {
		names := it.SharedSkillNames
		if names == nil {
			names = []string{}
		}
		out = append(out, dto.CandidateResponse{
			CandidateID:      it.UserID,
			CandidateName:    it.Name,
			CandidateEmail:   it.Email,
			SharedSkillCount: it.SharedSkillCount,
			SharedSkillNames: names,
		})
	}
	return response.List(c, out)
}

func (h *MatchHandler) Connect(c fiber.Ctx) error {
	var req dto.ConnectRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if req.UserID == "" || req.TargetID == "" {
		return middleware.NewAppError(fiber.StatusBadRequest, "user_id and target_id are required", nil, nil)
	}

	ownerID, err := parseUserID(req.UserID)
	if err != nil {
		return err
	}
	targetID, err := parseUserID(req.TargetID)
	if err != nil {
		return err
	}
	if err := middleware.RequireSelf(c, ownerID); err != nil {
		return err
	}

	edge, err := h.connections.Connect(c.Context(), ownerID, targetID)
	res := dto.ConnectionEdgeResponse{OwnerID: edge.OwnerID, TargetID: edge.TargetID, CreatedAt: edge.CreatedAt}
	if err != nil {
		if errors.Is(err, usecase.ErrConnectionExists) {
			return middleware.NewAppError(fiber.StatusConflict, "Connection already exists", res, err)
		}
		return mapUsecaseError(err)
	}
	return response.Created(c, res)
}
