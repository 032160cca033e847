package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/kyledinardi/odin-book-backend/internal/models"
)

// ErrAlreadyVoted reports a second vote in the same poll, whichever choice
// it targets.
var ErrAlreadyVoted = errors.New("already voted in this poll")

// ChoiceRepository defines the interface for poll choice operations
type ChoiceRepository interface {
	GetChoiceByID(id uint) (*models.Choice, error)
	Vote(choiceID, userID uint) (*models.Choice, error)
}

// PostgresChoiceRepository implements ChoiceRepository for PostgreSQL
type PostgresChoiceRepository struct {
	db *gorm.DB
}

// NewPostgresChoiceRepository creates a new PostgresChoiceRepository
func NewPostgresChoiceRepository(db *gorm.DB) *PostgresChoiceRepository {
	return &PostgresChoiceRepository{db: db}
}

func (r *PostgresChoiceRepository) GetChoiceByID(id uint) (*models.Choice, error) {
	var choice models.Choice
	if err := r.db.Preload("Votes").First(&choice, id).Error; err != nil {
		return nil, err
	}
	return &choice, nil
}

// Vote records the user's vote for the choice. The vote relation lives on
// Choice, so "already voted in this poll" means scanning every sibling
// choice of the same post; that scan and the insert share one transaction.
func (r *PostgresChoiceRepository) Vote(choiceID, userID uint) (*models.Choice, error) {
	var choice models.Choice

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&choice, choiceID).Error; err != nil {
			return err
		}

		var existing int64
		err := tx.Model(&models.ChoiceVote{}).
			Where("user_id = ?", userID).
			Where("choice_id IN (?)",
				tx.Model(&models.Choice{}).Select("id").Where("post_id = ?", choice.PostID),
			).
			Count(&existing).Error
		if err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyVoted
		}

		vote := models.ChoiceVote{ChoiceID: choiceID, UserID: userID}
		return tx.Create(&vote).Error
	})
	if err != nil {
		return nil, err
	}

	if err := r.db.Preload("Votes").First(&choice, choiceID).Error; err != nil {
		return nil, err
	}
	return &choice, nil
}
