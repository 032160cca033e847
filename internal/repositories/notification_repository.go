package repositories

import (
	"time"

	"gorm.io/gorm"

	"github.com/kyledinardi/odin-book-backend/internal/models"
	"github.com/kyledinardi/odin-book-backend/internal/pagination"
)

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	CreateNotification(notification *models.Notification) error
	ListAndMarkRead(targetUserID uint, cursor uint) ([]models.Notification, error)
	Refresh(targetUserID uint, since time.Time) ([]models.Notification, error)
	GetUnreadCount(targetUserID uint) (int64, error)
}

type PostgresNotificationRepository struct {
	db *gorm.DB
}

// NewPostgresNotificationRepository creates a gorm-backed NotificationRepository
func NewPostgresNotificationRepository(db *gorm.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

func (r *PostgresNotificationRepository) CreateNotification(notification *models.Notification) error {
	return r.db.Create(notification).Error
}

// ListAndMarkRead returns one page of the user's notifications, newest
// first, and marks all of their notifications read as a side effect. There
// is no per-item mark-read operation.
func (r *PostgresNotificationRepository) ListAndMarkRead(targetUserID uint, cursor uint) ([]models.Notification, error) {
	var notifications []models.Notification

	q := r.db.Preload("SourceUser").
		Where("target_user_id = ?", targetUserID).
		Scopes(pagination.TimeDesc("created_at"))

	if cursor != 0 {
		var anchor models.Notification
		if err := anchorRow(r.db, &anchor, cursor); err != nil {
			return nil, err
		}
		q = q.Scopes(pagination.AfterDesc("created_at", anchor.CreatedAt, anchor.ID))
	}

	if err := q.Find(&notifications).Error; err != nil {
		return nil, err
	}

	err := r.db.Model(&models.Notification{}).
		Where("target_user_id = ? AND is_read = ?", targetUserID, false).
		Update("is_read", true).Error
	return notifications, err
}

// Refresh returns notifications strictly newer than since, newest first,
// without touching read state.
func (r *PostgresNotificationRepository) Refresh(targetUserID uint, since time.Time) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Preload("SourceUser").
		Where("target_user_id = ?", targetUserID).
		Scopes(pagination.Since("created_at", since)).
		Find(&notifications).Error
	return notifications, err
}

func (r *PostgresNotificationRepository) GetUnreadCount(targetUserID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Notification{}).
		Where("target_user_id = ? AND is_read = ?", targetUserID, false).
		Count(&count).Error
	return count, err
}
