package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kyledinardi/odin-book-backend/internal/apperrors"
	"github.com/kyledinardi/odin-book-backend/internal/middleware"
	"github.com/kyledinardi/odin-book-backend/internal/repositories"
)

// PollHandler handles poll voting
type PollHandler struct {
	choiceRepository repositories.ChoiceRepository
}

// NewPollHandler creates a new PollHandler
func NewPollHandler(choiceRepo repositories.ChoiceRepository) *PollHandler {
	return &PollHandler{choiceRepository: choiceRepo}
}

// RegisterPollRoutes registers poll-related routes
func (h *PollHandler) RegisterPollRoutes(g *echo.Group) {
	g.POST("/choices/:id/vote", h.Vote)
}

// Vote records the caller's vote on a poll choice. A user gets one vote
// per poll, so voting on any sibling choice of one they already voted on
// is rejected.
func (h *PollHandler) Vote(c echo.Context) error {
	currentUserID := middleware.CurrentUserID(c)

	choiceID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	choice, err := h.choiceRepository.Vote(choiceID, currentUserID)
	if err != nil {
		if errors.Is(err, repositories.ErrAlreadyVoted) {
			return apperrors.Forbidden("You have already voted in this poll")
		}
		return apperrors.FromRecord(err, "Choice")
	}
	return c.JSON(http.StatusOK, echo.Map{"choice": choice})
}
