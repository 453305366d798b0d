package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure for transport mapping and recovery policy.
type Kind string

const (
	KindRetrieval       Kind = "RETRIEVAL_FAILURE"
	KindGeneration      Kind = "GENERATION_FAILURE"
	KindPersistence     Kind = "PERSISTENCE_FAILURE"
	KindTitleDerivation Kind = "TITLE_DERIVATION_FAILURE"
	KindValidation      Kind = "VALIDATION_FAILURE"
)

type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func Retrieval(message string, err error) *AppError {
	return New(KindRetrieval, message, err)
}

func Generation(message string, err error) *AppError {
	return New(KindGeneration, message, err)
}

func Persistence(message string, err error) *AppError {
	return New(KindPersistence, message, err)
}

func TitleDerivation(message string, err error) *AppError {
	return New(KindTitleDerivation, message, err)
}

func Validation(message string) *AppError {
	return New(KindValidation, message, nil)
}

// KindOf extracts the failure kind, or "" for untyped errors.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// HTTPStatus maps a failure kind to a response status. Untyped errors are
// treated as internal.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindRetrieval, KindGeneration:
		return http.StatusBadGateway
	case KindPersistence, KindTitleDerivation:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
