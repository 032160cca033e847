package handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"github.com/kyledinardi/odin-book-backend/internal/apperrors"
	"github.com/kyledinardi/odin-book-backend/internal/feed"
	"github.com/kyledinardi/odin-book-backend/internal/metrics"
	"github.com/kyledinardi/odin-book-backend/internal/middleware"
	"github.com/kyledinardi/odin-book-backend/internal/models"
	"github.com/kyledinardi/odin-book-backend/internal/realtime"
	"github.com/kyledinardi/odin-book-backend/internal/repositories"
	"github.com/kyledinardi/odin-book-backend/pkg/imagestore"
)

// Poll size bounds, checked at creation and never at vote time
const (
	minPollChoices = 2
	maxPollChoices = 6
)

// PostHandler handles post CRUD, search, and per-user post lists
type PostHandler struct {
	postRepository   repositories.PostRepository
	repostRepository repositories.RepostRepository
	commentRepo      repositories.CommentRepository
	followRepository repositories.FollowRepository
	imageStore       imagestore.Store
	hub              *realtime.Hub
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(
	postRepo repositories.PostRepository,
	repostRepo repositories.RepostRepository,
	commentRepo repositories.CommentRepository,
	followRepo repositories.FollowRepository,
	store imagestore.Store,
	hub *realtime.Hub,
) *PostHandler {
	return &PostHandler{
		postRepository:   postRepo,
		repostRepository: repostRepo,
		commentRepo:      commentRepo,
		followRepository: followRepo,
		imageStore:       store,
		hub:              hub,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.POST("/posts", h.CreatePost)
	g.GET("/posts/search", h.SearchPosts)
	g.GET("/posts/:id", h.GetPost)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
	g.GET("/users/:id/posts", h.GetUserPosts)
	g.GET("/users/:id/posts/images", h.GetImagePosts)
	g.GET("/users/:id/posts/liked", h.GetLikedPosts)
}

// CreatePost creates a text, image, or poll post. A poll needs 2 to 6
// non-empty choices; an empty post is rejected.
func (h *PostHandler) CreatePost(c echo.Context) error {
	currentUserID := middleware.CurrentUserID(c)

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadUserInput("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	imageURL := req.ImageURL
	if uploaded, err := h.uploadFormImage(c); err != nil {
		return err
	} else if uploaded != "" {
		imageURL = uploaded
	}

	choices := lo.FilterMap(req.PollChoices, func(choice string, _ int) (string, bool) {
		trimmed := strings.TrimSpace(choice)
		return trimmed, trimmed != ""
	})
	if len(req.PollChoices) > 0 && (len(choices) < minPollChoices || len(choices) > maxPollChoices) {
		return apperrors.BadUserInput("A poll requires between %d and %d non-empty choices", minPollChoices, maxPollChoices)
	}

	text := strings.TrimSpace(req.Text)
	if text == "" && imageURL == "" && len(choices) == 0 {
		return apperrors.BadUserInput("Post text must not be empty")
	}

	post := &models.Post{
		UserID:   currentUserID,
		Text:     text,
		ImageURL: imageURL,
		Choices: lo.Map(choices, func(choice string, _ int) models.Choice {
			return models.Choice{Text: choice}
		}),
	}
	if err := h.postRepository.CreatePost(post); err != nil {
		return err
	}
	metrics.PostsCreated.Inc()

	created, err := h.postRepository.GetPostByID(post.ID)
	if err != nil {
		return err
	}

	// Nudge followers' live feeds. Fire-and-forget.
	if h.hub != nil {
		if followerIDs, err := h.followRepository.GetFollowerIDs(currentUserID); err == nil {
			for _, followerID := range followerIDs {
				h.hub.Broadcast(realtime.UserChannel(followerID), realtime.EventNewPost, nil)
			}
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{"post": created})
}

func (h *PostHandler) uploadFormImage(c echo.Context) (string, error) {
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

// GetPost returns a post with a first page of its root comments
func (h *PostHandler) GetPost(c echo.Context) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(postID)
	if err != nil {
		return apperrors.FromRecord(err, "Post")
	}

	comments, err := h.commentRepo.GetRootComments(postID, parseCursor(c, "cursor"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"post": post, "comments": comments})
}

// UpdatePost edits a post's text, author-only
func (h *PostHandler) UpdatePost(c echo.Context) error {
	currentUserID := middleware.CurrentUserID(c)

	postID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.BadUserInput("Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(postID)
	if err != nil {
		return apperrors.FromRecord(err, "Post")
	}
	if post.UserID != currentUserID {
		return apperrors.Forbidden("You cannot update this post")
	}

	post.Text = strings.TrimSpace(req.Text)
	if err := h.postRepository.UpdatePost(post); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"post": post})
}

// DeletePost removes a post, author-only. Comments, likes, reposts and
// poll choices cascade at the storage layer.
func (h *PostHandler) DeletePost(c echo.Context) error {
	currentUserID := middleware.CurrentUserID(c)

	postID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	post, err := h.postRepository.GetPostByID(postID)
	if err != nil {
		return apperrors.FromRecord(err, "Post")
	}
	if post.UserID != currentUserID {
		return apperrors.Forbidden("You cannot delete this post")
	}

	if err := h.postRepository.DeletePost(post); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"post": post})
}

// SearchPosts matches post text, most liked first
func (h *PostHandler) SearchPosts(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("query"))
	if query == "" {
		return apperrors.BadUserInput("Search query must not be empty")
	}

	posts, err := h.postRepository.SearchPosts(query, parseCursor(c, "cursor"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"posts": posts})
}

// GetUserPosts merges one user's posts and reposts into a single
// timeline page; each source advances with its own cursor.
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	authorIDs := []uint{userID}
	posts, err := h.postRepository.GetFeedPosts(authorIDs, parseCursor(c, "postCursor"))
	if err != nil {
		return err
	}
	reposts, err := h.repostRepository.GetFeedReposts(authorIDs, parseCursor(c, "repostCursor"))
	if err != nil {
		return err
	}

	items := feed.Merge(posts, reposts, feed.PageSize)
	postCursor, repostCursor := feed.Cursors(items)
	return c.JSON(http.StatusOK, echo.Map{
		"items":         items,
		"post_cursor":   postCursor,
		"repost_cursor": repostCursor,
	})
}

// GetImagePosts lists a user's posts that carry an image
func (h *PostHandler) GetImagePosts(c echo.Context) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	posts, err := h.postRepository.GetImagePosts(userID, parseCursor(c, "cursor"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"posts": posts})
}

// GetLikedPosts lists the posts a user has liked
func (h *PostHandler) GetLikedPosts(c echo.Context) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return err
	}

	posts, err := h.postRepository.GetLikedPosts(userID, parseCursor(c, "cursor"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"posts": posts})
}
