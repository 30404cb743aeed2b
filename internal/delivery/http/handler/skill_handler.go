package handler

import (
	"errors"

	"skillmatch/internal/delivery/http/dto"
	"skillmatch/internal/delivery/http/middleware"
	"skillmatch/internal/pkg/response"
	"skillmatch/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type SkillHandler struct {
	uc usecase.SkillUsecase
}

type getOrCreateSkillRequest struct {
	Name string `json:"name"`
}

func NewSkillHandler(uc usecase.SkillUsecase) *SkillHandler {
	return &SkillHandler{uc: uc}
}

func (h *SkillHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/skills")
	grp.Get("/", h.List)
	grp.Post("/", h.GetOrCreate)
}

func (h *SkillHandler) List(c fiber.Ctx) error {
	items, err := h.uc.ListSkills(c.Context())
	if err != nil {
		return mapSkillUsecaseError(err)
	}

	res := make([]dto.SkillResponse, 0, len(items))
	for _, it := range items {
		res = append(res, dto.SkillResponse{ID: it.ID, Name: it.Name})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

// GetOrCreate returns the existing skill when the name is already taken in
// any casing, so retries and concurrent submissions converge on one id.
func (h *SkillHandler) GetOrCreate(c fiber.Ctx) error {
	var req getOrCreateSkillRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	s, err := h.uc.GetOrCreateSkill(c.Context(), req.Name)
	if err != nil {
		return mapSkillUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.SkillResponse{ID: s.ID, Name: s.Name})
}

func mapSkillUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInvalidName):
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid skill name", nil, err)
	case errors.Is(err, usecase.ErrUnknownSkill):
		return middleware.NewAppError(fiber.StatusNotFound, "Skill not found", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
