package handlers

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/kyledinardi/odin-book-backend/internal/apperrors"
	"github.com/kyledinardi/odin-book-backend/internal/metrics"
	"github.com/kyledinardi/odin-book-backend/internal/models"
	"github.com/kyledinardi/odin-book-backend/internal/realtime"
	"github.com/kyledinardi/odin-book-backend/internal/repositories"
)

// parseID reads a numeric path parameter
func parseID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, apperrors.BadUserInput("Invalid %s", name)
	}
	return uint(id), nil
}

// parseCursor reads an optional cursor query parameter; zero means first page
func parseCursor(c echo.Context, name string) uint {
	cursor, err := strconv.ParseUint(c.QueryParam(name), 10, 32)
	if err != nil {
		return 0
	}
	return uint(cursor)
}

// Notifier fans out one notification row plus a realtime nudge for a
// triggering action. Self-actions are suppressed for every verb.
type Notifier struct {
	notificationRepository repositories.NotificationRepository
	hub                    *realtime.Hub
}

func NewNotifier(notifRepo repositories.NotificationRepository, hub *realtime.Hub) *Notifier {
	return &Notifier{notificationRepository: notifRepo, hub: hub}
}

// Notify creates the notification synchronously with the triggering
// mutation. The realtime push is fire-and-forget; its failure never fails
// the request.
func (n *Notifier) Notify(notifType string, sourceUserID, targetUserID uint, postID, commentID *uint) error {
	if sourceUserID == targetUserID {
		return nil
	}

	notification := &models.Notification{
		Type:         notifType,
		SourceUserID: sourceUserID,
		TargetUserID: targetUserID,
		PostID:       postID,
		CommentID:    commentID,
	}
	if err := n.notificationRepository.CreateNotification(notification); err != nil {
		return err
	}

	metrics.NotificationsCreated.WithLabelValues(notifType).Inc()
	if n.hub != nil {
		n.hub.Broadcast(realtime.UserChannel(targetUserID), realtime.EventNewNotification, nil)
	}
	return nil
}
