package handler

import (
	"peer-match/internal/delivery/http/dto"
	"peer-match/internal/delivery/http/middleware"
	"peer-match/internal/pkg/response"
	"peer-match/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type UserSkillHandler struct {
	uc usecase.UserSkillUsecase
}

func NewUserSkillHandler(uc usecase.UserSkillUsecase) *UserSkillHandler {
	return &UserSkillHandler{uc: uc}
}

func (h *UserSkillHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/users/:user_id/skills")
	grp.Get("/", h.List)
	grp.Post("/", h.Add)
	grp.Delete("/:skill_id", h.Remove)
}

func (h *UserSkillHandler) List(c fiber.Ctx) error {
	userID, err := h.actingUser(c)
	if err != nil {
		return err
	}

	items, err := h.uc.ListUserSkills(c.Context(), userID)
	if err != nil {
		return mapUsecaseError(err)
	}

	res := make([]dto.UserSkillResponse, 0, len(items))
	for _, it := range items {
		res = append(res, dto.UserSkillResponse{SkillID: it.SkillID, SkillName: it.SkillName})
	}
	return response.List(c, res)
}

func (h *UserSkillHandler) Add(c fiber.Ctx) error {
	userID, err := h.actingUser(c)
	if err != nil {
		return err
	}

	var req dto.AddUserSkillRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	skillID, err := uuid.Parse(req.SkillID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid skill id", nil, err)
	}

	created, err := h.uc.AddUserSkill(c.Context(), userID, skillID)
	if err != nil {
		return mapUsecaseError(err)
	}

	res := dto.AddUserSkillResponse{SkillID: skillID, Created: created}
	if created {
		return response.Created(c, res)
	}
	return response.OK(c, res)
}

func (h *UserSkillHandler) Remove(c fiber.Ctx) error {
	userID, err := h.actingUser(c)
	if err != nil {
		return err
	}

	skillID, err := uuid.Parse(c.Params("skill_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid skill id", nil, err)
	}

	if err := h.uc.RemoveUserSkill(c.Context(), userID, skillID); err != nil {
		return mapUsecaseError(err)
	}
	return response.OK(c, nil)
}

func (h *UserSkillHandler) actingUser(c fiber.Ctx) (uuid.UUID, error) {
	userID, err := parseUserID(c.Params("user_id"))
	if err != nil {
		return uuid.Nil, err
	}
	if err := middleware.RequireSelf(c, userID); err != nil {
		return uuid.Nil, err
	}
	return userID, nil
}
