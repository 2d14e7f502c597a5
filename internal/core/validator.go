package core

import (
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"solarcast/internal/types"
)

// Validator wraps go-playground/validator for request body validation.
// Struct tags on the request types define the rules; validation failures are
// translated into structured AppErrors safe to return to clients.
type Validator struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// NewValidator creates a Validator. If logger is nil, slog.Default() is used.
func NewValidator(logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// ValidateStruct checks s against its validate tags. On failure it returns a
// *types.AppError with per-field details (field name and the violated rule).
func (v *Validator) ValidateStruct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return types.NewAppError(types.ErrCodeInternalUnexpected, "validation target is not a struct", err)
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		details := make(map[string]any, len(fieldErrs))
		code := types.ErrCodeValidationInvalidSite
		for _, fe := range fieldErrs {
			details[fe.Field()] = fe.Tag()
			if fe.Tag() == "required" {
				code = types.ErrCodeValidationMissingField
			}
		}
		return types.NewAppErrorWithDetails(code, "request validation failed", err, details)
	}

	return types.NewAppError(types.ErrCodeInternalUnexpected, "validation failed", err)
}
