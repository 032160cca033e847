package repositories

import (
	"gorm.io/gorm"

	"github.com/kyledinardi/odin-book-backend/internal/models"
	"github.com/kyledinardi/odin-book-backend/internal/pagination"
)

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateRootComment(comment *models.Comment) error
	CreateReply(comment *models.Comment) error
	GetCommentByID(id uint) (*models.Comment, error)
	GetAncestorChain(comment *models.Comment) ([]models.Comment, error)
	GetRootComments(postID uint, cursor uint) ([]models.Comment, error)
	GetReplies(parentID uint, cursor uint) ([]models.Comment, error)
	GetUserComments(userID uint, cursor uint) ([]models.Comment, error)
	UpdateComment(comment *models.Comment) error
	DeleteComment(comment *models.Comment) error
}

// PostgresCommentRepository implements CommentRepository for PostgreSQL
type PostgresCommentRepository struct {
	db *gorm.DB
}

// NewPostgresCommentRepository creates a new PostgresCommentRepository
func NewPostgresCommentRepository(db *gorm.DB) *PostgresCommentRepository {
	return &PostgresCommentRepository{db: db}
}

// CreateRootComment anchors a comment directly to its post and bumps the
// post's comment count.
func (r *PostgresCommentRepository) CreateRootComment(comment *models.Comment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		return adjustPostCount(tx, comment.PostID, "comments_count", 1)
	})
}

// CreateReply stores a reply. The caller has already set PostID to the root
// post inherited from the parent.
func (r *PostgresCommentRepository) CreateReply(comment *models.Comment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		if err := adjustCommentCount(tx, *comment.ParentID, "replies_count", 1); err != nil {
			return err
		}
		return adjustPostCount(tx, comment.PostID, "comments_count", 1)
	})
}

func (r *PostgresCommentRepository) GetCommentByID(id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.Preload("User").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// GetAncestorChain walks parent pointers up to the root and returns the
// chain root-first, excluding the comment itself. Each hop depends on the
// previous lookup, so the walk is sequential and O(depth).
func (r *PostgresCommentRepository) GetAncestorChain(comment *models.Comment) ([]models.Comment, error) {
	var chain []models.Comment
	parentID := comment.ParentID

	for parentID != nil {
		var parent models.Comment
		if err := r.db.Preload("User").First(&parent, *parentID).Error; err != nil {
			return nil, err
		}
		chain = append([]models.Comment{parent}, chain...)
		parentID = parent.ParentID
	}

	return chain, nil
}

// GetRootComments returns one page of a post's top-level comments, newest
// first.
func (r *PostgresCommentRepository) GetRootComments(postID uint, cursor uint) ([]models.Comment, error) {
	return r.commentPage(cursor, r.db.Where("post_id = ? AND parent_id IS NULL", postID))
}

// GetReplies returns one page of a comment's direct children, newest first.
// Deeper levels are read by repeated calls, not one recursive fetch.
func (r *PostgresCommentRepository) GetReplies(parentID uint, cursor uint) ([]models.Comment, error) {
	return r.commentPage(cursor, r.db.Where("parent_id = ?", parentID))
}

// GetUserComments lists a user's comments collapsed to one per post (the
// most recent), newest first. Group-wise max stands in for DISTINCT ON so
// the query also runs under the sqlite test driver.
func (r *PostgresCommentRepository) GetUserComments(userID uint, cursor uint) ([]models.Comment, error) {
	return r.commentPage(cursor, r.db.Where("id IN (?)",
		r.db.Model(&models.Comment{}).Select("MAX(id)").
			Where("user_id = ?", userID).Group("post_id"),
	))
}

func (r *PostgresCommentRepository) commentPage(cursor uint, q *gorm.DB) ([]models.Comment, error) {
	var comments []models.Comment
	q = q.Preload("User").Scopes(pagination.TimeDesc("created_at"))

	if cursor != 0 {
		var anchor models.Comment
		if err := anchorRow(r.db, &anchor, cursor); err != nil {
			return nil, err
		}
		q = q.Scopes(pagination.AfterDesc("created_at", anchor.CreatedAt, anchor.ID))
	}

	err := q.Find(&comments).Error
	return comments, err
}

func (r *PostgresCommentRepository) UpdateComment(comment *models.Comment) error {
	return r.db.Save(comment).Error
}

// DeleteComment removes the comment; the reply subtree goes with it through
// the FK cascade, and counts on the post and parent are adjusted.
func (r *PostgresCommentRepository) DeleteComment(comment *models.Comment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(comment).Error; err != nil {
			return err
		}
		if comment.ParentID != nil {
			if err := adjustCommentCount(tx, *comment.ParentID, "replies_count", -1); err != nil {
				return err
			}
		}
		return adjustPostCount(tx, comment.PostID, "comments_count", -1)
	})
}
