package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kyledinardi/odin-book-backend/internal/apperrors"
	"github.com/kyledinardi/odin-book-backend/internal/feed"
	"github.com/kyledinardi/odin-book-backend/internal/middleware"
	"github.com/kyledinardi/odin-book-backend/internal/repositories"
)

// FeedHandler assembles the merged home timeline
type FeedHandler struct {
	postRepository   repositories.PostRepository
	repostRepository repositories.RepostRepository
	followRepository repositories.FollowRepository
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(
	postRepo repositories.PostRepository,
	repostRepo repositories.RepostRepository,
	followRepo repositories.FollowRepository,
) *FeedHandler {
	return &FeedHandler{
		postRepository:   postRepo,
		repostRepository: repostRepo,
		followRepository: followRepo,
	}
}

// RegisterFeedRoutes registers feed-related routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group) {
	g.GET("/feed", h.GetFeed)
	g.GET("/feed/refresh", h.RefreshFeed)
}

// GetFeed returns one merged page of posts and reposts authored by the
// caller or anyone they follow, newest first. The two sources paginate
// independently, so the request carries a cursor per source and the
// response returns both advanced cursors.
func (h *FeedHandler) GetFeed(c echo.Context) error {
	currentUserID := middleware.CurrentUserID(c)

	authorIDs, err := h.feedAuthorIDs(currentUserID)
	if err != nil {
		return err
	}

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

// RefreshFeed returns feed items strictly newer than the given timestamp
// (unix milliseconds), capped at one page. Used for live-update polling
// rather than backward paging.
func (h *FeedHandler) RefreshFeed(c echo.Context) error {
	currentUserID := middleware.CurrentUserID(c)

	millis, err := strconv.ParseInt(c.QueryParam("timestamp"), 10, 64)
	if err != nil {
		return apperrors.BadUserInput("Invalid timestamp")
	}
	since := time.UnixMilli(millis)

	authorIDs, err := h.feedAuthorIDs(currentUserID)
	if err != nil {
		return err
	}

	posts, err := h.postRepository.GetFeedPostsSince(authorIDs, since)
	if err != nil {
		return err
	}
	reposts, err := h.repostRepository.GetFeedRepostsSince(authorIDs, since)
	if err != nil {
		return err
	}

	items := feed.Merge(posts, reposts, feed.PageSize)
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// feedAuthorIDs is the feed membership set: the caller plus everyone they
// follow.
func (h *FeedHandler) feedAuthorIDs(currentUserID uint) ([]uint, error) {
	followingIDs, err := h.followRepository.GetFollowingIDs(currentUserID)
	if err != nil {
		return nil, err
	}
	return append(followingIDs, currentUserID), nil
}
