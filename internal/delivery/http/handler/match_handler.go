package handler

import (
	"errors"

	"skillmatch/internal/delivery/http/dto"
	"skillmatch/internal/delivery/http/middleware"
	"skillmatch/internal/pkg/response"
	"skillmatch/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type MatchHandler struct {
	uc usecase.MatchUsecase
}

type findMatchesRequest struct {
	Skills []string `json:"skills"`
}

type saveMatchRequest struct {
	TargetID uuid.UUID `json:"target_id"`
}

func NewMatchHandler(uc usecase.MatchUsecase) *MatchHandler {
	return &MatchHandler{uc: uc}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	grp := r.Group("/matches")
	grp.Get("/", h.List)
	grp.Post("/", h.Save)
	grp.Post("/find", h.Find)
	grp.Get("/with/:user_id", h.IsMatched)
}

func (h *MatchHandler) Find(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req findMatchesRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	items, err := h.uc.FindMatches(c.Context(), userID, req.Skills)
	if err != nil {
		return mapMatchUsecaseError(err)
	}

	res := dto.FindMatchesResponse{Matches: make([]dto.MatchCandidateResponse, 0, len(items))}
	for _, it := range items {
		res.Matches = append(res.Matches, dto.MatchCandidateResponse{
			UserID:       it.UserID,
			Username:     it.Username,
			CommonSkills: it.CommonSkills,
		})
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

func (h *MatchHandler) Save(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req saveMatchRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	m, err := h.uc.SaveMatch(c.Context(), userID, req.TargetID)
	if err != nil {
		return mapMatchUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, fiber.Map{"match": toMatchResponse(m)})
}

func (h *MatchHandler) List(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	items, err := h.uc.ListMatches(c.Context(), userID)
	if err != nil {
		return mapMatchUsecaseError(err)
	}

	res := make([]dto.MatchResponse, 0, len(items))
	for _, m := range items {
		res = append(res, toMatchResponse(m))
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, res)
}

// IsMatched is the chat-unlock gate check consumed by the chat transport.
func (h *MatchHandler) IsMatched(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	otherID, err := uuid.Parse(c.Params("user_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	matched, err := h.uc.IsMatched(c.Context(), userID, otherID)
	if err != nil {
		return mapMatchUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.IsMatchedResponse{Matched: matched})
}

func toMatchResponse(m usecase.MatchItem) dto.MatchResponse {
	return dto.MatchResponse{
		ID:          m.ID,
		InitiatorID: m.InitiatorID,
		TargetID:    m.TargetID,
		CreatedAt:   m.CreatedAt,
	}
}

func mapMatchUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrInsufficientSkills):
		return middleware.NewAppError(fiber.StatusBadRequest, "At least 3 distinct skills are required", nil, err)
	case errors.Is(err, usecase.ErrSelfMatch):
		return middleware.NewAppError(fiber.StatusBadRequest, "Cannot match with yourself", nil, err)
	case errors.Is(err, usecase.ErrUnknownUser):
		return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
