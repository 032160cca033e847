package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kyledinardi/odin-book-backend/internal/apperrors"
	"github.com/kyledinardi/odin-book-backend/internal/middleware"
	"github.com/kyledinardi/odin-book-backend/internal/models"
	"github.com/kyledinardi/odin-book-backend/internal/repositories"
)

// RoomHandler handles direct-message room operations
type RoomHandler struct {
	roomRepository    repositories.RoomRepository
	userRepository    repositories.UserRepository
	messageRepository repositories.MessageRepository
}

// NewRoomHandler creates a new RoomHandler
func NewRoomHandler(
	roomRepo repositories.RoomRepository,
	userRepo repositories.UserRepository,
	messageRepo repositories.MessageRepository,
) *RoomHandler {
	return &RoomHandler{
		roomRepository:    roomRepo,
		userRepository:    userRepo,
		messageRepository: messageRepo,
	}
}

// RegisterRoomRoutes registers room-related routes
func (h *RoomHandler) RegisterRoomRoutes(g *echo.Group) {
	g.POST("/rooms", h.FindOrCreateRoom)
	g.GET("/rooms", h.GetRooms)
	g.GET("/rooms/:id", h.GetRoom)
}

// FindOrCreateRoom returns the DM room between the caller and the given
// user, creating it if none exists yet. There is at most one room per
// pair, and a user cannot open a room with themselves.
func (h *RoomHandler) FindOrCreateRoom(c echo.Context) error {
	currentUserID := middleware.CurrentUserID(c)

	req := new(models.FindOrCreateRoomRequest)
	if err := c.Bind(req); err != nil {
		return apperrors.BadUserInput("Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	if req.UserID == currentUserID {
		return apperrors.Forbidden("You cannot open a room with yourself")
	}

	if _, err := h.userRepository.GetUserByID(req.UserID); err != nil {
		return apperrors.FromRecord(err, "User")
	}

	room, err := h.roomRepository.FindOrCreateRoom(currentUserID, req.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"room": room})
}

// GetRooms returns one page of the caller's rooms ordered by most recent
// activity.
func (h *RoomHandler) GetRooms(c echo.Context) error {
	currentUserID := middleware.CurrentUserID(c)

	rooms, err := h.roomRepository.GetRoomsForUser(currentUserID, parseCursor(c, "cursor"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms": rooms})
}

// GetRoom returns a room with its members and the first page of messages.
// Members only.
func (h *RoomHandler) GetRoom(c echo.Context) error {
	currentUserID := middleware.CurrentUserID(c)

	roomID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	room, err := h.roomRepository.GetRoomByID(roomID)
	if err != nil {
		return apperrors.FromRecord(err, "Room")
	}

	member, err := h.roomRepository.IsMember(room.ID, currentUserID)
	if err != nil {
		return err
	}
	if !member {
		return apperrors.Forbidden("You are not a member of this room")
	}

	messages, err := h.messageRepository.GetMessages(room.ID, parseCursor(c, "cursor"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"room": room, "messages": messages})
}
