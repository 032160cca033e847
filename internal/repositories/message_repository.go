package repositories

import (
	"gorm.io/gorm"

	"github.com/kyledinardi/odin-book-backend/internal/models"
	"github.com/kyledinardi/odin-book-backend/internal/pagination"
)

// MessageRepository defines the interface for chat message operations
type MessageRepository interface {
	CreateMessage(message *models.Message) error
	GetMessageByID(id uint) (*models.Message, error)
	GetMessages(roomID uint, cursor uint) ([]models.Message, error)
	UpdateMessage(message *models.Message) error
	DeleteMessage(message *models.Message) error
}

// PostgresMessageRepository implements MessageRepository for PostgreSQL
type PostgresMessageRepository struct {
	db *gorm.DB
}

// NewPostgresMessageRepository creates a new PostgresMessageRepository
func NewPostgresMessageRepository(db *gorm.DB) *PostgresMessageRepository {
	return &PostgresMessageRepository{db: db}
}

// CreateMessage stores the message and bumps the room's last-activity
// timestamp in the same transaction.
func (r *PostgresMessageRepository) CreateMessage(message *models.Message) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(message).Error; err != nil {
			return err
		}
		return tx.Model(&models.Room{}).Where("id = ?", message.RoomID).
			Update("last_updated", message.CreatedAt).Error
	})
}

func (r *PostgresMessageRepository) GetMessageByID(id uint) (*models.Message, error) {
	var message models.Message
	if err := r.db.Preload("User").First(&message, id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// GetMessages returns one page of room history, oldest first
func (r *PostgresMessageRepository) GetMessages(roomID uint, cursor uint) ([]models.Message, error) {
	var messages []models.Message

	q := r.db.Preload("User").
		Where("room_id = ?", roomID).
		Scopes(pagination.TimeAsc("created_at"))

	if cursor != 0 {
		var anchor models.Message
		if err := anchorRow(r.db, &anchor, cursor); err != nil {
			return nil, err
		}
		q = q.Scopes(pagination.AfterAsc("created_at", anchor.CreatedAt, anchor.ID))
	}

	err := q.Find(&messages).Error
	return messages, err
}

func (r *PostgresMessageRepository) UpdateMessage(message *models.Message) error {
	return r.db.Save(message).Error
}

func (r *PostgresMessageRepository) DeleteMessage(message *models.Message) error {
	return r.db.Delete(message).Error
}
