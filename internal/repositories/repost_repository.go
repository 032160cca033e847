package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/kyledinardi/odin-book-backend/internal/models"
	"github.com/kyledinardi/odin-book-backend/internal/pagination"
)

// RepostRepository defines the interface for repost data operations
type RepostRepository interface {
	ToggleRepost(userID uint, contentType string, contentID uint) (repost *models.Repost, created bool, err error)
	GetFeedReposts(authorIDs []uint, cursor uint) ([]models.Repost, error)
	GetFeedRepostsSince(authorIDs []uint, since time.Time) ([]models.Repost, error)
}

// PostgresRepostRepository implements RepostRepository for PostgreSQL
type PostgresRepostRepository struct {
	db *gorm.DB
}

// NewPostgresRepostRepository creates a new PostgresRepostRepository
func NewPostgresRepostRepository(db *gorm.DB) *PostgresRepostRepository {
	return &PostgresRepostRepository{db: db}
}

// ToggleRepost removes an existing repost of the content by the user, or
// creates one. Returns the affected repost and whether it was created.
func (r *PostgresRepostRepository) ToggleRepost(userID uint, contentType string, contentID uint) (*models.Repost, bool, error) {
	column := "post_id"
	if contentType == models.ContentTypeComment {
		column = "comment_id"
	}

	var repost models.Repost
	var created bool

	err := r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND "+column+" = ?", userID, contentID).
			First(&repost).Error

		switch {
		case err == nil:
			created = false
			if err := tx.Delete(&repost).Error; err != nil {
				return err
			}
			return r.adjustContentRepostCount(tx, &repost, -1)
		case errors.Is(err, gorm.ErrRecordNotFound):
			repost = models.Repost{UserID: userID}
			if contentType == models.ContentTypeComment {
				repost.CommentID = &contentID
			} else {
				repost.PostID = &contentID
			}
			if err := tx.Create(&repost).Error; err != nil {
				return err
			}
			created = true
			return r.adjustContentRepostCount(tx, &repost, 1)
		default:
			return err
		}
	})
	if err != nil {
		return nil, false, err
	}
	return &repost, created, nil
}

func (r *PostgresRepostRepository) adjustContentRepostCount(tx *gorm.DB, repost *models.Repost, delta int) error {
	if repost.PostID != nil {
		return adjustPostCount(tx, *repost.PostID, "reposts_count", delta)
	}
	return nil
}

// GetFeedReposts returns one cursor page of reposts issued by any of
// authorIDs, newest first, with the reposted content preloaded.
func (r *PostgresRepostRepository) GetFeedReposts(authorIDs []uint, cursor uint) ([]models.Repost, error) {
	var reposts []models.Repost
	q := r.repostQuery().
		Where("user_id IN ?", authorIDs).
		Scopes(pagination.TimeDesc("created_at"))

	if cursor != 0 {
		var anchor models.Repost
		if err := anchorRow(r.db, &anchor, cursor); err != nil {
			return nil, err
		}
		q = q.Scopes(pagination.AfterDesc("created_at", anchor.CreatedAt, anchor.ID))
	}

	err := q.Find(&reposts).Error
	return reposts, err
}

// GetFeedRepostsSince is the refresh variant of GetFeedReposts
func (r *PostgresRepostRepository) GetFeedRepostsSince(authorIDs []uint, since time.Time) ([]models.Repost, error) {
	var reposts []models.Repost
	err := r.repostQuery().
		Where("user_id IN ?", authorIDs).
		Scopes(pagination.Since("created_at", since)).
		Find(&reposts).Error
	return reposts, err
}

func (r *PostgresRepostRepository) repostQuery() *gorm.DB {
	return r.db.
		Preload("User").
		Preload("Post").Preload("Post.User").Preload("Post.Choices").
		Preload("Comment").Preload("Comment.User")
}
