package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/kyledinardi/odin-book-backend/internal/models"
)

// LikeRepository defines the interface for like toggles on posts and
// comments. Both follow the same create-or-remove contract.
type LikeRepository interface {
	TogglePostLike(postID, userID uint) (liked bool, err error)
	ToggleCommentLike(commentID, userID uint) (liked bool, err error)
	GetPostLikerIDs(postID uint) ([]uint, error)
	HasUserLikedPost(postID, userID uint) (bool, error)
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// TogglePostLike likes the post when no like exists and unlikes it
// otherwise, keeping the post's like count in step.
func (r *PostgresLikeRepository) TogglePostLike(postID, userID uint) (bool, error) {
	var liked bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.PostLike
		err := tx.Where("post_id = ? AND user_id = ?", postID, userID).First(&existing).Error

		switch {
		case err == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			liked = false
			return adjustPostCount(tx, postID, "likes_count", -1)
		case errors.Is(err, gorm.ErrRecordNotFound):
			like := models.PostLike{PostID: postID, UserID: userID}
			if err := tx.Create(&like).Error; err != nil {
				return err
			}
			liked = true
			return adjustPostCount(tx, postID, "likes_count", 1)
		default:
			return err
		}
	})
	return liked, err
}

// ToggleCommentLike is TogglePostLike for comments
func (r *PostgresLikeRepository) ToggleCommentLike(commentID, userID uint) (bool, error) {
	var liked bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.CommentLike
		err := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).First(&existing).Error

		switch {
		case err == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			liked = false
			return adjustCommentCount(tx, commentID, "likes_count", -1)
		case errors.Is(err, gorm.ErrRecordNotFound):
			like := models.CommentLike{CommentID: commentID, UserID: userID}
			if err := tx.Create(&like).Error; err != nil {
				return err
			}
			liked = true
			return adjustCommentCount(tx, commentID, "likes_count", 1)
		default:
			return err
		}
	})
	return liked, err
}

func (r *PostgresLikeRepository) GetPostLikerIDs(postID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.PostLike{}).Where("post_id = ?", postID).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *PostgresLikeRepository) HasUserLikedPost(postID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.PostLike{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func adjustPostCount(tx *gorm.DB, postID uint, column string, delta int) error {
	return tx.Model(&models.Post{}).Where("id = ?", postID).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
}

func adjustCommentCount(tx *gorm.DB, commentID uint, column string, delta int) error {
	return tx.Model(&models.Comment{}).Where("id = ?", commentID).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
}
