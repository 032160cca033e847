package repositories

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/kyledinardi/odin-book-backend/internal/models"
	"github.com/kyledinardi/odin-book-backend/internal/pagination"
)

// RoomRepository defines the interface for direct-message room operations
type RoomRepository interface {
	FindOrCreateRoom(userA, userB uint) (*models.Room, error)
	GetRoomByID(id uint) (*models.Room, error)
	GetRoomsForUser(userID uint, cursor uint) ([]models.Room, error)
	IsMember(roomID, userID uint) (bool, error)
	Touch(roomID uint, at time.Time) error
}

// PostgresRoomRepository implements RoomRepository for PostgreSQL
type PostgresRoomRepository struct {
	db *gorm.DB
}

// NewPostgresRoomRepository creates a new PostgresRoomRepository
func NewPostgresRoomRepository(db *gorm.DB) *PostgresRoomRepository {
	return &PostgresRoomRepository{db: db}
}

// FindOrCreateRoom returns the existing two-member room between the users
// or creates it. Calling it twice for the same pair yields the same room.
func (r *PostgresRoomRepository) FindOrCreateRoom(userA, userB uint) (*models.Room, error) {
	low, high := userA, userB
	if low > high {
		low, high = high, low
	}

	var room models.Room
	err := r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_low_id = ? AND user_high_id = ?", low, high).First(&room).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		room = models.Room{
			UserLowID:   low,
			UserHighID:  high,
			LastUpdated: time.Now(),
			Members: []models.RoomMember{
				{UserID: userA},
				{UserID: userB},
			},
		}
		return tx.Create(&room).Error
	})
	if err != nil {
		// A concurrent first open can win the race on idx_room_pair;
		// the pair row exists now, so read it back.
		var existing models.Room
		if lookupErr := r.db.Where("user_low_id = ? AND user_high_id = ?", low, high).
			First(&existing).Error; lookupErr == nil {
			return r.GetRoomByID(existing.ID)
		}
		return nil, err
	}

	return r.GetRoomByID(room.ID)
}

func (r *PostgresRoomRepository) GetRoomByID(id uint) (*models.Room, error) {
	var room models.Room
	err := r.db.Preload("Members").Preload("Members.User").First(&room, id).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// GetRoomsForUser lists the user's rooms by last activity, newest first
func (r *PostgresRoomRepository) GetRoomsForUser(userID uint, cursor uint) ([]models.Room, error) {
	var rooms []models.Room

	q := r.db.Preload("Members").Preload("Members.User").
		Where("id IN (?)",
			r.db.Model(&models.RoomMember{}).Select("room_id").Where("user_id = ?", userID),
		).
		Scopes(pagination.TimeDesc("last_updated"))

	if cursor != 0 {
		var anchor models.Room
		if err := anchorRow(r.db, &anchor, cursor); err != nil {
			return nil, err
		}
		q = q.Scopes(pagination.AfterDesc("last_updated", anchor.LastUpdated, anchor.ID))
	}

	err := q.Find(&rooms).Error
	return rooms, err
}

func (r *PostgresRoomRepository) IsMember(roomID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.RoomMember{}).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Touch bumps the room's last-activity timestamp used for list ordering
func (r *PostgresRoomRepository) Touch(roomID uint, at time.Time) error {
	return r.db.Model(&models.Room{}).Where("id = ?", roomID).
		Update("last_updated", at).Error
}
