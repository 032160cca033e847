package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/kyledinardi/odin-book-backend/internal/apperrors"
	"github.com/kyledinardi/odin-book-backend/internal/middleware"
	"github.com/kyledinardi/odin-book-backend/internal/models"
	"github.com/kyledinardi/odin-book-backend/internal/repositories"
	"github.com/kyledinardi/odin-book-backend/pkg/imagestore"
)

const listedUsersLimit = 10

// UserHandler handles user profile and user-list HTTP requests
type UserHandler struct {
	userRepository         repositories.UserRepository
	followRepository       repositories.FollowRepository
	notificationRepository repositories.NotificationRepository
	imageStore             imagestore.Store
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, followRepo repositories.FollowRepository, notificationRepo repositories.NotificationRepository, store imagestore.Store) *UserHandler {
	return &UserHandler{
		userRepository:         userRepo,
		followRepository:       followRepo,
		notificationRepository: notificationRepo,
		imageStore:             store,
	}
}

// RegisterUserRoutes registers user-related routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/users", h.GetListedUsers)
	g.GET("/users/search", h.SearchUsers)
	g.GET("/users/me", h.GetCurrentUser)
	g.PUT("/users/me", h.UpdateProfile)
	g.PUT("/users/me/password", h.UpdatePassword)
	g.GET("/users/:id", h.GetUser)
	g.GET("/users/:id/followers", h.GetFollowers)
	g.GET("/users/:id/following", h.GetFollowing)
	g.GET("/users/:id/mutuals", h.GetMutuals)
}

// userPayload decorates a user with count aggregates the client renders
type userPayload struct {
	*models.User
	UnreadNotifications int64 `json:"unread_notifications"`
}

// GetListedUsers suggests up to 10 accounts the caller does not follow,
// most followed first, join date as tie-break.
func (h *UserHandler) GetListedUsers(c echo.Context) error {
	currentUserID := middleware.CurrentUserID(c)

	users, err := h.userRepository.GetListedUsers(currentUserID, listedUsersLimit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

// SearchUsers matches usernames and display names, cursor-paginated
func (h *UserHandler) SearchUsers(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("query"))
	if query == "" {
		return apperrors.BadUserInput("Search query must not be empty")
	}

	users, err := h.userRepository.SearchUsers(query, parseCursor(c, "cursor"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}

// GetCurrentUser returns the caller's profile with the unread
// notification count.
func (h *UserHandler) GetCurrentUser(c echo.Context) error {
	currentUserID := middleware.CurrentUserID(c)

	user, err := h.userRepository.GetUserByID(currentUserID)
	if err != nil {
		return apperrors.FromRecord(err, "User")
	}

	unread, err := h.notificationRepository.GetUnreadCount(currentUserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"user": userPayload{User: user, UnreadNotifications: unread}})
}

// GetUser returns a profile by id
func (h *UserHandler) GetUser(c echo.Context) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(userID)
	if err != nil {
		return apperrors.FromRecord(err, "User")
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

// UpdateProfile updates display fields. Sent as multipart when it carries
// a new avatar or header image; those are streamed to the image store and
// only the returned URL is kept.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	currentUserID := middleware.CurrentUserID(c)

	user, err := h.userRepository.GetUserByID(currentUserID)
	if err != nil {
		return apperrors.FromRecord(err, "User")
	}

	var req models.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadUserInput("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if req.Website != "" {
		if _, err := url.ParseRequestURI(req.Website); err != nil {
			return apperrors.BadUserInput("Website must be a valid URL")
		}
		user.Website = strings.TrimSpace(req.Website)
	}
	if req.DisplayName != "" {
		user.DisplayName = strings.TrimSpace(req.DisplayName)
	}
	if req.Bio != "" {
		user.Bio = strings.TrimSpace(req.Bio)
	}
	if req.Location != "" {
		user.Location = strings.TrimSpace(req.Location)
	}

	if pfpURL, err := h.uploadFormImage(c, "pfp"); err != nil {
		return err
	} else if pfpURL != "" {
		user.PfpURL = pfpURL
	}
	if headerURL, err := h.uploadFormImage(c, "header_image"); err != nil {
		return err
	} else if headerURL != "" {
		user.HeaderURL = headerURL
	}

	if err := h.userRepository.UpdateUser(user); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

// uploadFormImage pushes an optional multipart file field to the image
// store; empty string when the field is absent.
func (h *UserHandler) uploadFormImage(c echo.Context, field string) (string, error) {
	file, err := c.FormFile(field)
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

// UpdatePassword verifies the current password and rotates the hash
func (h *UserHandler) UpdatePassword(c echo.Context) error {
	currentUserID := middleware.CurrentUserID(c)

	var req models.UpdatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadUserInput("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByID(currentUserID)
	if err != nil {
		return apperrors.FromRecord(err, "User")
	}
	if user.Provider != "" {
		return apperrors.Forbidden("Provider accounts have no local password")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
		return apperrors.BadUserInput("Incorrect current password")
	}
	if req.NewPassword != req.NewPasswordConfirmation {
		return apperrors.BadUserInput("Passwords did not match")
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := h.userRepository.UpdatePassword(currentUserID, string(newHash)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

// GetFollowers lists a user's followers, cursor-paginated
func (h *UserHandler) GetFollowers(c echo.Context) error {
	return h.userList(c, h.followRepository.GetFollowers)
}

// GetFollowing lists who a user follows, cursor-paginated
func (h *UserHandler) GetFollowing(c echo.Context) error {
	return h.userList(c, h.followRepository.GetFollowing)
}

// GetMutuals lists users who follow and are followed by the user
func (h *UserHandler) GetMutuals(c echo.Context) error {
	return h.userList(c, h.followRepository.GetMutuals)
}

func (h *UserHandler) userList(c echo.Context, fetch func(uint, uint) ([]models.User, error)) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.userRepository.GetUserByID(userID); err != nil {
		return apperrors.FromRecord(err, "User")
	}

	users, err := fetch(userID, parseCursor(c, "cursor"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"users": users})
}
