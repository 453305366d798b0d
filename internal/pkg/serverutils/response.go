package serverutils

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"pnm-assistant-be/internal/pkg/apperror"
)

type Response[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(message string) Response[any] {
	return Response[any]{
		Success: false,
		Message: message,
	}
}

var validate = validator.New()

// ValidateRequest runs struct-tag validation and converts the first failure
// into a validation AppError the middleware can map to 400.
func ValidateRequest(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return apperror.Validation("field '" + strings.ToLower(fe.Field()) + "' failed on '" + fe.Tag() + "'")
		}
		return apperror.Validation(err.Error())
	}
	return nil
}
