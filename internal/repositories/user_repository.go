package repositories

import (
	"gorm.io/gorm"

	"github.com/kyledinardi/odin-book-backend/internal/models"
	"github.com/kyledinardi/odin-book-backend/internal/pagination"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUserByProviderID(provider, providerID string) (*models.User, error)
	UpdateUser(user *models.User) error
	UpdatePassword(userID uint, passwordHash string) error
	SearchUsers(query string, cursor uint) ([]models.User, error)
	GetListedUsers(currentUserID uint, limit int) ([]models.User, error)
}

// PostgresUserRepository implements UserRepository for PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgresUserRepository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *PostgresUserRepository) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresUserRepository) GetUserByProviderID(provider, providerID string) (*models.User, error) {
	var user models.User
	err := r.db.Where("provider = ? AND provider_id = ?", provider, providerID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *PostgresUserRepository) UpdateUser(user *models.User) error {
	return r.db.Save(user).Error
}

func (r *PostgresUserRepository) UpdatePassword(userID uint, passwordHash string) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).
		Update("password_hash", passwordHash).Error
}

// SearchUsers matches username or display name, ordered by follower count
// descending with join date as tie-break.
func (r *PostgresUserRepository) SearchUsers(query string, cursor uint) ([]models.User, error) {
	var users []models.User
	pattern := "%" + query + "%"

	q := r.db.Where("username LIKE ? OR display_name LIKE ?", pattern, pattern).
		Scopes(pagination.PopularityDesc())

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

// GetListedUsers suggests accounts the user does not follow yet, most
// followed first.
func (r *PostgresUserRepository) GetListedUsers(currentUserID uint, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.
		Where("id != ?", currentUserID).
		Where("id NOT IN (?)",
			r.db.Model(&models.Follow{}).Select("following_id").Where("follower_id = ?", currentUserID),
		).
		Order("followers_count DESC, join_date ASC, id ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

// adjustCount applies a +1/-1 delta to a denormalized user counter inside
// the given transaction handle.
func adjustUserCount(tx *gorm.DB, userID uint, column string, delta int) error {
	return tx.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta)).Error
}
