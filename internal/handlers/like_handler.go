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

// LikeHandler handles like toggles on posts and comments
type LikeHandler struct {
	likeRepository    repositories.LikeRepository
	postRepository    repositories.PostRepository
	commentRepository repositories.CommentRepository
	notifier          *Notifier
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(
	likeRepo repositories.LikeRepository,
	postRepo repositories.PostRepository,
	commentRepo repositories.CommentRepository,
	n *Notifier,
) *LikeHandler {
	return &LikeHandler{
		likeRepository:    likeRepo,
		postRepository:    postRepo,
		commentRepository: commentRepo,
		notifier:          n,
	}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:id/like", h.TogglePostLike)
	g.POST("/comments/:id/like", h.ToggleCommentLike)
}

// TogglePostLike likes the post if unliked, unlikes it otherwise. The
// author is notified only when the like is created.
func (h *LikeHandler) TogglePostLike(c echo.Context) error {
	currentUserID := middleware.CurrentUserID(c)

	postID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(postID)
	if err != nil {
		return apperrors.FromRecord(err, "Post")
	}

	liked, err := h.likeRepository.TogglePostLike(post.ID, currentUserID)
	if err != nil {
		return err
	}

	metrics.TogglesTotal.WithLabelValues("like", toggleState(liked)).Inc()
	if liked {
		if err := h.notifier.Notify(models.NotificationLike, currentUserID, post.UserID, &post.ID, nil); err != nil {
			return err
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"liked": liked})
}

// ToggleCommentLike likes the comment if unliked, unlikes it otherwise.
func (h *LikeHandler) ToggleCommentLike(c echo.Context) error {
	currentUserID := middleware.CurrentUserID(c)

	commentID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	comment, err := h.commentRepository.GetCommentByID(commentID)
	if err != nil {
		return apperrors.FromRecord(err, "Comment")
	}

	liked, err := h.likeRepository.ToggleCommentLike(comment.ID, currentUserID)
	if err != nil {
		return err
	}

	metrics.TogglesTotal.WithLabelValues("like", toggleState(liked)).Inc()
	if liked {
		if err := h.notifier.Notify(models.NotificationLike, currentUserID, comment.UserID, &comment.PostID, &comment.ID); err != nil {
			return err
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"liked": liked})
}

func toggleState(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
