package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/kyledinardi/odin-book-backend/internal/apperrors"
	"github.com/kyledinardi/odin-book-backend/internal/middleware"
	"github.com/kyledinardi/odin-book-backend/internal/models"
	"github.com/kyledinardi/odin-book-backend/internal/repositories"
)

// AuthHandler handles registration and both login paths
type AuthHandler struct {
	userRepository repositories.UserRepository
	tokenVerifier  middleware.TokenVerifier
	jwtSecret      string
}

// NewAuthHandler creates a new AuthHandler. The verifier may be nil when
// no external provider is configured; provider login then rejects.
func NewAuthHandler(userRepo repositories.UserRepository, verifier middleware.TokenVerifier, jwtSecret string) *AuthHandler {
	return &AuthHandler{
		userRepository: userRepo,
		tokenVerifier:  verifier,
		jwtSecret:      jwtSecret,
	}
}

// RegisterAuthRoutes registers authentication-related routes
func (h *AuthHandler) RegisterAuthRoutes(g *echo.Group) {
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/provider", h.ProviderLogin)
}

// fieldError is one collected validation failure
type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Register creates a local-credential user. Field checks are independent,
// so their failures are collected and returned together.
func (h *AuthHandler) Register(c echo.Context) error {
	var req models.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadUserInput("Invalid request payload")
	}

	req.Username = strings.TrimSpace(req.Username)
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	req.Password = strings.TrimSpace(req.Password)
	req.PasswordConfirmation = strings.TrimSpace(req.PasswordConfirmation)

	var fieldErrors []fieldError
	if req.Username == "" {
		fieldErrors = append(fieldErrors, fieldError{"username", "Username must not be empty"})
	} else if _, err := h.userRepository.GetUserByUsername(req.Username); err == nil {
		fieldErrors = append(fieldErrors, fieldError{"username", "A user already exists with this username"})
	}

	if req.Password == "" {
		fieldErrors = append(fieldErrors, fieldError{"password", "Password must not be empty"})
	} else if req.Password != req.PasswordConfirmation {
		fieldErrors = append(fieldErrors, fieldError{"password_confirmation", "Passwords did not match"})
	}

	if len(fieldErrors) > 0 {
		return apperrors.BadUserInputWith("Registration failed", fieldErrors)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = req.Username
	}

	user := &models.User{
		Username:     req.Username,
		DisplayName:  displayName,
		PasswordHash: string(passwordHash),
		PfpURL:       gravatarURL(req.Username),
	}
	if err := h.userRepository.CreateUser(user); err != nil {
		return err
	}

	token, err := h.signToken(user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"user": user, "token": token})
}

// Login checks local credentials and issues a JWT
func (h *AuthHandler) Login(c echo.Context) error {
	var req models.LoginRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadUserInput("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.userRepository.GetUserByUsername(strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.BadUserInput("Incorrect username or password")
		}
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(strings.TrimSpace(req.Password))) != nil {
		return apperrors.BadUserInput("Incorrect username or password")
	}

	token, err := h.signToken(user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user, "token": token})
}

// ProviderLogin verifies an external provider's ID token through the
// pluggable verifier, then finds or creates the matching user.
func (h *AuthHandler) ProviderLogin(c echo.Context) error {
	if h.tokenVerifier == nil {
		return apperrors.BadUserInput("External provider login is not configured")
	}

	var req models.ProviderLoginRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadUserInput("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	identity, err := h.tokenVerifier.Verify(c.Request().Context(), req.IDToken)
	if err != nil {
		return apperrors.Unauthenticated("Invalid provider token")
	}

	user, err := h.userRepository.GetUserByProviderID(identity.Provider, identity.SubjectID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		username := identity.Provider + ":" + identity.SubjectID
		displayName := identity.Name
		if displayName == "" {
			displayName = username
		}
		pfpURL := identity.PfpURL
		if pfpURL == "" {
			pfpURL = gravatarURL(username)
		}

		user = &models.User{
			Username:    username,
			DisplayName: displayName,
			Provider:    identity.Provider,
			ProviderID:  identity.SubjectID,
			PfpURL:      pfpURL,
		}
		if err := h.userRepository.CreateUser(user); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	token, err := h.signToken(user)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"user": user, "token": token})
}

func (h *AuthHandler) signToken(user *models.User) (string, error) {
	claims := &models.JwtCustomClaims{
		UserID:   user.ID,
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}

// gravatarURL seeds a deterministic identicon avatar from the username
func gravatarURL(username string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(username)))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?d=identicon", hex.EncodeToString(sum[:]))
}
