package repositories

import (
	"time"

	"gorm.io/gorm"

	"github.com/kyledinardi/odin-book-backend/internal/models"
	"github.com/kyledinardi/odin-book-backend/internal/pagination"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(post *models.Post) error
	GetPostByID(id uint) (*models.Post, error)
	UpdatePost(post *models.Post) error
	DeletePost(post *models.Post) error
	SearchPosts(query string, cursor uint) ([]models.Post, error)
	GetFeedPosts(authorIDs []uint, cursor uint) ([]models.Post, error)
	GetFeedPostsSince(authorIDs []uint, since time.Time) ([]models.Post, error)
	GetImagePosts(userID uint, cursor uint) ([]models.Post, error)
	GetLikedPosts(userID uint, cursor uint) ([]models.Post, error)
}

// PostgresPostRepository implements PostRepository for PostgreSQL
type PostgresPostRepository struct {
	db *gorm.DB
}

// NewPostgresPostRepository creates a new PostgresPostRepository
func NewPostgresPostRepository(db *gorm.DB) *PostgresPostRepository {
	return &PostgresPostRepository{db: db}
}

// CreatePost inserts the post with its poll choices, if any, and bumps the
// author's post count in the same transaction.
func (r *PostgresPostRepository) CreatePost(post *models.Post) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		return adjustUserCount(tx, post.UserID, "posts_count", 1)
	})
}

func (r *PostgresPostRepository) GetPostByID(id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.Preload("User").Preload("Choices").Preload("Choices.Votes").
		First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostgresPostRepository) UpdatePost(post *models.Post) error {
	return r.db.Save(post).Error
}

// DeletePost removes the post and adjusts the author's post count. Likes,
// comments, reposts and choices go with it through FK cascades.
func (r *PostgresPostRepository) DeletePost(post *models.Post) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(post).Error; err != nil {
			return err
		}
		return adjustUserCount(tx, post.UserID, "posts_count", -1)
	})
}

// SearchPosts matches post text, most liked first, creation time ascending
// as tie-break.
func (r *PostgresPostRepository) SearchPosts(query string, cursor uint) ([]models.Post, error) {
	var posts []models.Post
	q := r.db.Preload("User").Preload("Choices").
		Where("text LIKE ?", "%"+query+"%").
		Scopes(pagination.LikesDesc())

	if cursor != 0 {
		var anchor models.Post
		if err := anchorRow(r.db, &anchor, cursor); err != nil {
			return nil, err
		}
		q = q.Scopes(pagination.AfterLikes(anchor.LikesCount, anchor.CreatedAt, anchor.ID))
	}

	err := q.Find(&posts).Error
	return posts, err
}

// GetFeedPosts returns one cursor page of posts authored by any of
// authorIDs, newest first.
func (r *PostgresPostRepository) GetFeedPosts(authorIDs []uint, cursor uint) ([]models.Post, error) {
	var posts []models.Post
	q := r.db.Preload("User").Preload("Choices").
		Where("user_id IN ?", authorIDs).
		Scopes(pagination.TimeDesc("created_at"))

	if cursor != 0 {
		var anchor models.Post
		if err := anchorRow(r.db, &anchor, cursor); err != nil {
			return nil, err
		}
		q = q.Scopes(pagination.AfterDesc("created_at", anchor.CreatedAt, anchor.ID))
	}

	err := q.Find(&posts).Error
	return posts, err
}

// GetFeedPostsSince is the refresh variant: strictly newer than since,
// newest first, capped at one page.
func (r *PostgresPostRepository) GetFeedPostsSince(authorIDs []uint, since time.Time) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Preload("User").Preload("Choices").
		Where("user_id IN ?", authorIDs).
		Scopes(pagination.Since("created_at", since)).
		Find(&posts).Error
	return posts, err
}

func (r *PostgresPostRepository) GetImagePosts(userID uint, cursor uint) ([]models.Post, error) {
	var posts []models.Post
	q := r.db.Preload("User").
		Where("user_id = ? AND image_url <> ''", userID).
		Scopes(pagination.TimeDesc("created_at"))

	if cursor != 0 {
		var anchor models.Post
		if err := anchorRow(r.db, &anchor, cursor); err != nil {
			return nil, err
		}
		q = q.Scopes(pagination.AfterDesc("created_at", anchor.CreatedAt, anchor.ID))
	}

	err := q.Find(&posts).Error
	return posts, err
}

func (r *PostgresPostRepository) GetLikedPosts(userID uint, cursor uint) ([]models.Post, error) {
	var posts []models.Post
	q := r.db.Preload("User").Preload("Choices").
		Where("id IN (?)",
			r.db.Model(&models.PostLike{}).Select("post_id").Where("user_id = ?", userID),
		).
		Scopes(pagination.TimeDesc("created_at"))

	if cursor != 0 {
		var anchor models.Post
		if err := anchorRow(r.db, &anchor, cursor); err != nil {
			return nil, err
		}
		q = q.Scopes(pagination.AfterDesc("created_at", anchor.CreatedAt, anchor.ID))
	}

	err := q.Find(&posts).Error
	return posts, err
}
