package router

import (
	"strconv"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/kyledinardi/odin-book-backend/internal/apperrors"
	"github.com/kyledinardi/odin-book-backend/internal/handlers"
	"github.com/kyledinardi/odin-book-backend/internal/metrics"
	"github.com/kyledinardi/odin-book-backend/internal/middleware"
	"github.com/kyledinardi/odin-book-backend/internal/models"
	"github.com/kyledinardi/odin-book-backend/internal/realtime"
	"github.com/kyledinardi/odin-book-backend/internal/repositories"
	"github.com/kyledinardi/odin-book-backend/pkg/imagestore"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	e.Use(requestMetrics)
	e.HTTPErrorHandler = apperrors.HTTPErrorHandler
	logrus.Info("global middleware configured")
}

// SetupRoutes migrates the schema, wires every repository and handler, and
// registers all application routes.
func SetupRoutes(
	e *echo.Echo,
	db *gorm.DB,
	verifier middleware.TokenVerifier,
	store imagestore.Store,
	hub *realtime.Hub,
	jwtSecret string,
) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Post{},
		&models.Choice{},
		&models.ChoiceVote{},
		&models.PostLike{},
		&models.Comment{},
		&models.CommentLike{},
		&models.Repost{},
		&models.Notification{},
		&models.Room{},
		&models.RoomMember{},
		&models.Message{},
	)
	if err != nil {
		logrus.WithError(err).Fatal("auto migration failed")
	}
	logrus.Info("auto migrations completed for all models")

	e.GET("/health", handlers.HealthCheck)

	userRepo := repositories.NewPostgresUserRepository(db)
	followRepo := repositories.NewPostgresFollowRepository(db)
	postRepo := repositories.NewPostgresPostRepository(db)
	choiceRepo := repositories.NewPostgresChoiceRepository(db)
	likeRepo := repositories.NewPostgresLikeRepository(db)
	commentRepo := repositories.NewPostgresCommentRepository(db)
	repostRepo := repositories.NewPostgresRepostRepository(db)
	notificationRepo := repositories.NewPostgresNotificationRepository(db)
	roomRepo := repositories.NewPostgresRoomRepository(db)
	messageRepo := repositories.NewPostgresMessageRepository(db)

	notifier := handlers.NewNotifier(notificationRepo, hub)

	// Unprotected routes for authentication
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, verifier, jwtSecret)
	authHandler.RegisterAuthRoutes(authGroup)

	// Protected routes
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(jwtSecret))

	handlers.NewUserHandler(userRepo, followRepo, notificationRepo, store).RegisterUserRoutes(api)
	handlers.NewFollowHandler(followRepo, userRepo, notifier).RegisterFollowRoutes(api)
	handlers.NewPostHandler(postRepo, repostRepo, commentRepo, followRepo, store, hub).RegisterPostRoutes(api)
	handlers.NewFeedHandler(postRepo, repostRepo, followRepo).RegisterFeedRoutes(api)
	handlers.NewCommentHandler(commentRepo, postRepo, notifier).RegisterCommentRoutes(api)
	handlers.NewLikeHandler(likeRepo, postRepo, commentRepo, notifier).RegisterLikeRoutes(api)
	handlers.NewRepostHandler(repostRepo, postRepo, commentRepo, notifier).RegisterRepostRoutes(api)
	handlers.NewPollHandler(choiceRepo).RegisterPollRoutes(api)
	handlers.NewNotificationHandler(notificationRepo).RegisterNotificationRoutes(api)
	handlers.NewRoomHandler(roomRepo, userRepo, messageRepo).RegisterRoomRoutes(api)
	handlers.NewMessageHandler(messageRepo, roomRepo, store, hub).RegisterMessageRoutes(api)

	api.GET("/ws", func(c echo.Context) error {
		return hub.ServeWS(c, middleware.CurrentUserID(c))
	})

	logrus.Info("all routes configured")
}

func requestMetrics(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)

		status := c.Response().Status
		if err != nil {
			if appErr, ok := err.(*apperrors.Error); ok {
				status = appErr.Status()
			} else if httpErr, ok := err.(*echo.HTTPError); ok {
				status = httpErr.Code
			} else {
				status = 500
			}
		}
		metrics.RequestsTotal.WithLabelValues(c.Path(), strconv.Itoa(status)).Inc()
		return err
	}
}
