package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/kyledinardi/odin-book-backend/internal/apperrors"
)

// ErrStaleCursor reports a cursor naming a row that no longer exists.
// Falling back to the first page instead would hand the client rows it
// has already seen, so the stale anchor is surfaced as a not-found.
var ErrStaleCursor error = apperrors.NotFound("Cursor not found")

// anchorRow loads the keyset anchor row a cursor names into dest.
func anchorRow(db *gorm.DB, dest any, cursor uint) error {
	if err := db.First(dest, cursor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStaleCursor
		}
		return err
	}
	return nil
}
