package validator

import (
	"github.com/go-playground/validator/v10"

	apperrors "github.com/SAP-F-2025/marketplace-service/internal/errors"
)

// Validator wraps go-playground/validator with our error translation.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	return &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Validate checks a request struct against its validate tags. A nil return
// means the struct passed.
func (v *Validator) Validate(s interface{}) apperrors.ValidationErrors {
	if err := v.validate.Struct(s); err != nil {
		return apperrors.ToValidationErrors(err)
	}
	return nil
}
