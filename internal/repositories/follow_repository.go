package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/kyledinardi/odin-book-backend/internal/models"
	"github.com/kyledinardi/odin-book-backend/internal/pagination"
)

// FollowRepository defines the interface for follow data operations
type FollowRepository interface {
	ToggleFollow(followerID, followingID uint) (following bool, err error)
	IsFollowing(followerID, followingID uint) (bool, error)
	GetFollowers(userID uint, cursor uint) ([]models.User, error)
	GetFollowing(userID uint, cursor uint) ([]models.User, error)
	GetMutuals(userID uint, cursor uint) ([]models.User, error)
	GetFollowingIDs(userID uint) ([]uint, error)
	GetFollowerIDs(userID uint) ([]uint, error)
}

// PostgresFollowRepository implements FollowRepository for PostgreSQL
type PostgresFollowRepository struct {
	db *gorm.DB
}

// NewPostgresFollowRepository creates a new PostgresFollowRepository
func NewPostgresFollowRepository(db *gorm.DB) *PostgresFollowRepository {
	return &PostgresFollowRepository{db: db}
}

// ToggleFollow creates the edge if absent, removes it if present, and keeps
// the denormalized follower/following counts in step. The whole
// check-then-act runs in one transaction; the unique index on the pair
// backs it up against concurrent toggles.
func (r *PostgresFollowRepository) ToggleFollow(followerID, followingID uint) (bool, error) {
	var following bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.Follow
		err := tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).
			First(&existing).Error

		switch {
		case err == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			following = false
			return adjustFollowCounts(tx, followerID, followingID, -1)
		case errors.Is(err, gorm.ErrRecordNotFound):
			follow := models.Follow{FollowerID: followerID, FollowingID: followingID}
			if err := tx.Create(&follow).Error; err != nil {
				return err
			}
			following = true
			return adjustFollowCounts(tx, followerID, followingID, 1)
		default:
			return err
		}
	})
	return following, err
}

func adjustFollowCounts(tx *gorm.DB, followerID, followingID uint, delta int) error {
	if err := adjustUserCount(tx, followerID, "following_count", delta); err != nil {
		return err
	}
	return adjustUserCount(tx, followingID, "followers_count", delta)
}

func (r *PostgresFollowRepository) IsFollowing(followerID, followingID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresFollowRepository) GetFollowers(userID uint, cursor uint) ([]models.User, error) {
	return r.userPage(cursor, r.db.Where("id IN (?)",
		r.db.Model(&models.Follow{}).Select("follower_id").Where("following_id = ?", userID),
	))
}

func (r *PostgresFollowRepository) GetFollowing(userID uint, cursor uint) ([]models.User, error) {
	return r.userPage(cursor, r.db.Where("id IN (?)",
		r.db.Model(&models.Follow{}).Select("following_id").Where("follower_id = ?", userID),
	))
}

// GetMutuals returns users that both follow userID and are followed by them
func (r *PostgresFollowRepository) GetMutuals(userID uint, cursor uint) ([]models.User, error) {
	return r.userPage(cursor, r.db.
		Where("id IN (?)",
			r.db.Model(&models.Follow{}).Select("follower_id").Where("following_id = ?", userID),
		).
		Where("id IN (?)",
			r.db.Model(&models.Follow{}).Select("following_id").Where("follower_id = ?", userID),
		))
}

// userPage applies the popularity ordering and keyset cursor shared by all
// user lists.
func (r *PostgresFollowRepository) userPage(cursor uint, q *gorm.DB) ([]models.User, error) {
	var users []models.User
	q = q.Scopes(pagination.PopularityDesc())

	if cursor != 0 {
		var anchor models.User
		if err := anchorRow(r.db, &anchor, cursor); err != nil {
			return nil, err
		}
		q = q.Scopes(pagination.AfterPopularity(anchor.FollowersCount, anchor.JoinDate, anchor.ID))
	}

	err := q.Find(&users).Error
	return users, err
}

func (r *PostgresFollowRepository) GetFollowingIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Follow{}).Where("follower_id = ?", userID).
		Pluck("following_id", &ids).Error
	return ids, err
}

func (r *PostgresFollowRepository) GetFollowerIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Follow{}).Where("following_id = ?", userID).
		Pluck("follower_id", &ids).Error
	return ids, err
}
