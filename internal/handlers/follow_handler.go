package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kyledinardi/odin-book-backend/internal/apperrors"
	"github.com/kyledinardi/odin-book-backend/internal/metrics"
	"github.com/kyledinardi/odin-book-backend/internal/middleware"
	"github.com/kyledinardi/odin-book-backend/internal/models"
	"github.com/kyledinardi/odin-book-backend/internal/repositories"
)

// FollowHandler handles the follow/unfollow toggle
type FollowHandler struct {
	followRepository repositories.FollowRepository
	userRepository   repositories.UserRepository
	notifier         *Notifier
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(followRepo repositories.FollowRepository, userRepo repositories.UserRepository, n *Notifier) *FollowHandler {
	return &FollowHandler{
		followRepository: followRepo,
		userRepository:   userRepo,
		notifier:         n,
	}
}

// RegisterFollowRoutes registers follow-related routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group) {
	g.POST("/users/:id/follow", h.ToggleFollow)
}

// ToggleFollow follows the target when no edge exists and unfollows
// otherwise. Only following emits a notification.
func (h *FollowHandler) ToggleFollow(c echo.Context) error {
	currentUserID := middleware.CurrentUserID(c)

	targetID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if targetID == currentUserID {
		return apperrors.Forbidden("You cannot follow yourself")
	}
	if _, err := h.userRepository.GetUserByID(targetID); err != nil {
		return apperrors.FromRecord(err, "User")
	}

	following, err := h.followRepository.ToggleFollow(currentUserID, targetID)
	if err != nil {
		return err
	}

	if following {
		metrics.TogglesTotal.WithLabelValues("follow", "on").Inc()
		if err := h.notifier.Notify(models.NotificationFollow, currentUserID, targetID, nil, nil); err != nil {
			return err
		}
	} else {
		metrics.TogglesTotal.WithLabelValues("follow", "off").Inc()
	}

	return c.JSON(http.StatusOK, echo.Map{"following": following})
}
