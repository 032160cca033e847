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

// RepostHandler handles repost toggles
type RepostHandler struct {
	repostRepository  repositories.RepostRepository
	postRepository    repositories.PostRepository
	commentRepository repositories.CommentRepository
	notifier          *Notifier
}

// NewRepostHandler creates a new RepostHandler
func NewRepostHandler(
	repostRepo repositories.RepostRepository,
	postRepo repositories.PostRepository,
	commentRepo repositories.CommentRepository,
	n *Notifier,
) *RepostHandler {
	return &RepostHandler{
		repostRepository:  repostRepo,
		postRepository:    postRepo,
		commentRepository: commentRepo,
		notifier:          n,
	}
}

// RegisterRepostRoutes registers repost-related routes
func (h *RepostHandler) RegisterRepostRoutes(g *echo.Group) {
	g.POST("/reposts", h.ToggleRepost)
}

// ToggleRepost reposts the referenced post or comment, or removes the
// caller's existing repost of it. The content's author is notified only
// when the repost is created.
func (h *RepostHandler) ToggleRepost(c echo.Context) error {
	currentUserID := middleware.CurrentUserID(c)

	req := new(models.CreateRepostRequest)
	if err := c.Bind(req); err != nil {
		return apperrors.BadUserInput("Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	var authorID uint
	var postID, commentID *uint

	switch req.ContentType {
	case models.ContentTypePost:
		post, err := h.postRepository.GetPostByID(req.ContentID)
		if err != nil {
			return apperrors.FromRecord(err, "Post")
		}
		authorID = post.UserID
		postID = &post.ID
	case models.ContentTypeComment:
		comment, err := h.commentRepository.GetCommentByID(req.ContentID)
		if err != nil {
			return apperrors.FromRecord(err, "Comment")
		}
		authorID = comment.UserID
		postID = &comment.PostID
		commentID = &comment.ID
	default:
		return apperrors.BadUserInput("Invalid content type")
	}

	repost, created, err := h.repostRepository.ToggleRepost(currentUserID, req.ContentType, req.ContentID)
	if err != nil {
		return err
	}

	metrics.TogglesTotal.WithLabelValues("repost", toggleState(created)).Inc()
	if created {
		if err := h.notifier.Notify(models.NotificationRepost, currentUserID, authorID, postID, commentID); err != nil {
			return err
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"repost": repost, "reposted": created})
}
