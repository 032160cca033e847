package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kyledinardi/odin-book-backend/internal/apperrors"
	"github.com/kyledinardi/odin-book-backend/internal/middleware"
	"github.com/kyledinardi/odin-book-backend/internal/models"
	"github.com/kyledinardi/odin-book-backend/internal/realtime"
	"github.com/kyledinardi/odin-book-backend/internal/repositories"
	"github.com/kyledinardi/odin-book-backend/pkg/imagestore"
)

// MessageHandler handles direct messages inside rooms
type MessageHandler struct {
	messageRepository repositories.MessageRepository
	roomRepository    repositories.RoomRepository
	imageStore        imagestore.Store
	hub               *realtime.Hub
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(
	messageRepo repositories.MessageRepository,
	roomRepo repositories.RoomRepository,
	store imagestore.Store,
	hub *realtime.Hub,
) *MessageHandler {
	return &MessageHandler{
		messageRepository: messageRepo,
		roomRepository:    roomRepo,
		imageStore:        store,
		hub:               hub,
	}
}

// RegisterMessageRoutes registers message-related routes
func (h *MessageHandler) RegisterMessageRoutes(g *echo.Group) {
	g.POST("/rooms/:id/messages", h.CreateMessage)
	g.GET("/rooms/:id/messages", h.GetMessages)
	g.PUT("/messages/:id", h.UpdateMessage)
	g.DELETE("/messages/:id", h.DeleteMessage)
}

// CreateMessage posts a message to a room the caller belongs to, bumps
// the room's activity time, and pushes the message to everyone connected
// to the room's channel.
func (h *MessageHandler) CreateMessage(c echo.Context) error {
	currentUserID := middleware.CurrentUserID(c)

	roomID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.requireMember(roomID, currentUserID); err != nil {
		return err
	}

	req := new(models.CreateMessageRequest)
	if err := c.Bind(req); err != nil {
		return apperrors.BadUserInput("Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	imageURL := req.ImageURL
	if uploaded, err := h.uploadFormImage(c); err != nil {
		return err
	} else if uploaded != "" {
		imageURL = uploaded
	}

	if strings.TrimSpace(req.Text) == "" && imageURL == "" {
		return apperrors.BadUserInput("Message must have text or an image")
	}

	message := &models.Message{
		RoomID:   roomID,
		UserID:   currentUserID,
		Text:     req.Text,
		ImageURL: imageURL,
	}
	if err := h.messageRepository.CreateMessage(message); err != nil {
		return err
	}

	created, err := h.messageRepository.GetMessageByID(message.ID)
	if err != nil {
		return err
	}

	if h.hub != nil {
		h.hub.Broadcast(realtime.RoomChannel(roomID), realtime.EventNewMessage, created)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": created})
}

// GetMessages returns one page of a room's messages in chronological
// order. Members only.
func (h *MessageHandler) GetMessages(c echo.Context) error {
	currentUserID := middleware.CurrentUserID(c)

	roomID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if err := h.requireMember(roomID, currentUserID); err != nil {
		return err
	}

	messages, err := h.messageRepository.GetMessages(roomID, parseCursor(c, "cursor"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"messages": messages})
}

// UpdateMessage edits a message's text and pushes the replacement to the
// room. Author only.
func (h *MessageHandler) UpdateMessage(c echo.Context) error {
	currentUserID := middleware.CurrentUserID(c)

	messageID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	message, err := h.messageRepository.GetMessageByID(messageID)
	if err != nil {
		return apperrors.FromRecord(err, "Message")
	}
	if message.UserID != currentUserID {
		return apperrors.Forbidden("You can only edit your own messages")
	}

	req := new(models.UpdateMessageRequest)
	if err := c.Bind(req); err != nil {
		return apperrors.BadUserInput("Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	message.Text = req.Text
	if err := h.messageRepository.UpdateMessage(message); err != nil {
		return err
	}

	if h.hub != nil {
		h.hub.Broadcast(realtime.RoomChannel(message.RoomID), realtime.EventReplaceMessage, message)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": message})
}

// DeleteMessage removes a message and tells the room to drop it. Author
// only.
func (h *MessageHandler) DeleteMessage(c echo.Context) error {
	currentUserID := middleware.CurrentUserID(c)

	messageID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	message, err := h.messageRepository.GetMessageByID(messageID)
	if err != nil {
		return apperrors.FromRecord(err, "Message")
	}
	if message.UserID != currentUserID {
		return apperrors.Forbidden("You can only delete your own messages")
	}

	if err := h.messageRepository.DeleteMessage(message); err != nil {
		return err
	}

	if h.hub != nil {
		h.hub.Broadcast(realtime.RoomChannel(message.RoomID), realtime.EventRemoveMessage, echo.Map{"id": message.ID})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": message})
}

func (h *MessageHandler) uploadFormImage(c echo.Context) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return "", nil
	}
	if h.imageStore == nil {
		return "", apperrors.BadUserInput("Image uploads are not configured")
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	return h.imageStore.Upload(
		c.Request().Context(), src, file.Size,
		file.Filename, file.Header.Get("Content-Type"),
	)
}

func (h *MessageHandler) requireMember(roomID, userID uint) error {
	if _, err := h.roomRepository.GetRoomByID(roomID); err != nil {
		return apperrors.FromRecord(err, "Room")
	}
	member, err := h.roomRepository.IsMember(roomID, userID)
	if err != nil {
		return err
	}
	if !member {
		return apperrors.Forbidden("You are not a member of this room")
	}
	return nil
}
