package validators

import (
	"github.com/go-playground/validator/v10"

	"github.com/kyledinardi/odin-book-backend/internal/apperrors"
)

// CustomValidator adapts go-playground/validator to echo's Validator
// interface so handlers can call c.Validate(req).
type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return apperrors.BadUserInput("%s", err.Error())
	}
	return nil
}
