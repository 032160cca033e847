package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kyledinardi/odin-book-backend/internal/apperrors"
	"github.com/kyledinardi/odin-book-backend/internal/middleware"
	"github.com/kyledinardi/odin-book-backend/internal/models"
	"github.com/kyledinardi/odin-book-backend/internal/repositories"
)

// CommentHandler handles comment and reply operations
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository
	notifier          *Notifier
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(
	commentRepo repositories.CommentRepository,
	postRepo repositories.PostRepository,
	n *Notifier,
) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
		notifier:          n,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:id/comments", h.CreateComment)
	g.GET("/posts/:id/comments", h.GetRootComments)
	g.GET("/comments/:id", h.GetComment)
	g.GET("/comments/:id/replies", h.GetReplies)
	g.POST("/comments/:id/replies", h.CreateReply)
	g.PUT("/comments/:id", h.UpdateComment)
	g.DELETE("/comments/:id", h.DeleteComment)
	g.GET("/users/:id/comments", h.GetUserComments)
}

// CreateComment creates a root comment on a post and notifies the post's
// author.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	currentUserID := middleware.CurrentUserID(c)

	postID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	req := new(models.CreateCommentRequest)
	if err := c.Bind(req); err != nil {
		return apperrors.BadUserInput("Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Text) == "" && req.ImageURL == "" {
		return apperrors.BadUserInput("Comment must have text or an image")
	}

	post, err := h.postRepository.GetPostByID(postID)
	if err != nil {
		return apperrors.FromRecord(err, "Post")
	}

	comment := &models.Comment{
		UserID:   currentUserID,
		PostID:   post.ID,
		Text:     req.Text,
		ImageURL: req.ImageURL,
	}
	if err := h.commentRepository.CreateRootComment(comment); err != nil {
		return err
	}

	created, err := h.commentRepository.GetCommentByID(comment.ID)
	if err != nil {
		return err
	}

	if err := h.notifier.Notify(models.NotificationComment, currentUserID, post.UserID, &post.ID, &created.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"comment": created})
}

// CreateReply creates a reply under an existing comment. The reply always
// belongs to the same root post as its parent, and the parent's author is
// the one notified.
func (h *CommentHandler) CreateReply(c echo.Context) error {
	currentUserID := middleware.CurrentUserID(c)

	parentID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	req := new(models.CreateCommentRequest)
	if err := c.Bind(req); err != nil {
		return apperrors.BadUserInput("Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	if strings.TrimSpace(req.Text) == "" && req.ImageURL == "" {
		return apperrors.BadUserInput("Comment must have text or an image")
	}

	parent, err := h.commentRepository.GetCommentByID(parentID)
	if err != nil {
		return apperrors.FromRecord(err, "Comment")
	}

	reply := &models.Comment{
		UserID:   currentUserID,
		PostID:   parent.PostID,
		ParentID: &parent.ID,
		Text:     req.Text,
		ImageURL: req.ImageURL,
	}
	if err := h.commentRepository.CreateReply(reply); err != nil {
		return err
	}

	created, err := h.commentRepository.GetCommentByID(reply.ID)
	if err != nil {
		return err
	}

	if err := h.notifier.Notify(models.NotificationReply, currentUserID, parent.UserID, &parent.PostID, &created.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"comment": created})
}

// GetComment returns a comment together with its ancestor chain (root
// first, excluding the comment itself) and the first page of its replies.
func (h *CommentHandler) GetComment(c echo.Context) error {
	commentID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	comment, err := h.commentRepository.GetCommentByID(commentID)
	if err != nil {
		return apperrors.FromRecord(err, "Comment")
	}

	ancestors, err := h.commentRepository.GetAncestorChain(comment)
	if err != nil {
		return err
	}

	replies, err := h.commentRepository.GetReplies(comment.ID, parseCursor(c, "cursor"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"comment":   comment,
		"ancestors": ancestors,
		"replies":   replies,
	})
}

// GetRootComments returns one page of a post's top-level comments, newest
// first.
func (h *CommentHandler) GetRootComments(c echo.Context) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if _, err := h.postRepository.GetPostByID(postID); err != nil {
		return apperrors.FromRecord(err, "Post")
	}

	comments, err := h.commentRepository.GetRootComments(postID, parseCursor(c, "cursor"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"comments": comments})
}

// GetReplies returns one page of direct replies to a comment, newest first.
func (h *CommentHandler) GetReplies(c echo.Context) error {
	commentID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	if _, err := h.commentRepository.GetCommentByID(commentID); err != nil {
		return apperrors.FromRecord(err, "Comment")
	}

	replies, err := h.commentRepository.GetReplies(commentID, parseCursor(c, "cursor"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"replies": replies})
}

// GetUserComments returns one page of a user's comments, at most one per
// post (their latest on each).
func (h *CommentHandler) GetUserComments(c echo.Context) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	comments, err := h.commentRepository.GetUserComments(userID, parseCursor(c, "cursor"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"comments": comments})
}

// UpdateComment edits a comment's text. Author only.
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	currentUserID := middleware.CurrentUserID(c)

	commentID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	comment, err := h.commentRepository.GetCommentByID(commentID)
	if err != nil {
		return apperrors.FromRecord(err, "Comment")
	}
	if comment.UserID != currentUserID {
		return apperrors.Forbidden("You can only edit your own comments")
	}

	req := new(models.UpdateCommentRequest)
	if err := c.Bind(req); err != nil {
		return apperrors.BadUserInput("Invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	comment.Text = req.Text
	if err := h.commentRepository.UpdateComment(comment); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"comment": comment})
}

// DeleteComment removes a comment and, through the cascade, its whole
// reply subtree. Author only.
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	currentUserID := middleware.CurrentUserID(c)

	commentID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	comment, err := h.commentRepository.GetCommentByID(commentID)
	if err != nil {
		return apperrors.FromRecord(err, "Comment")
	}
	if comment.UserID != currentUserID {
		return apperrors.Forbidden("You can only delete your own comments")
	}

	if err := h.commentRepository.DeleteComment(comment); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"comment": comment})
}
