package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kyledinardi/odin-book-backend/internal/apperrors"
	"github.com/kyledinardi/odin-book-backend/internal/middleware"
	"github.com/kyledinardi/odin-book-backend/internal/repositories"
)

// NotificationHandler handles notification listing
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notificationRepo repositories.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notificationRepository: notificationRepo}
}

// RegisterNotificationRoutes registers notification-related routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.ListNotifications)
	g.GET("/notifications/refresh", h.RefreshNotifications)
}

// ListNotifications returns one page of the caller's notifications,
// newest first. Viewing the list marks all of the caller's notifications
// read.
func (h *NotificationHandler) ListNotifications(c echo.Context) error {
	currentUserID := middleware.CurrentUserID(c)

	notifications, err := h.notificationRepository.ListAndMarkRead(currentUserID, parseCursor(c, "cursor"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"notifications": notifications})
}

// RefreshNotifications returns notifications strictly newer than the given
// timestamp (unix milliseconds) without marking anything read.
func (h *NotificationHandler) RefreshNotifications(c echo.Context) error {
	currentUserID := middleware.CurrentUserID(c)

	millis, err := strconv.ParseInt(c.QueryParam("timestamp"), 10, 64)
	if err != nil {
		return apperrors.BadUserInput("Invalid timestamp")
	}

	notifications, err := h.notificationRepository.Refresh(currentUserID, time.UnixMilli(millis))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"notifications": notifications})
}
