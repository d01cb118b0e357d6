package services

import (
	"errors"
	"fmt"

	"github.com/saeid-a/PowerScaleBack/internal/models"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrStorageUnavailable = errors.New("storage service is not configured")
	ErrInvalidCode        = errors.New("invalid code")
)

type ValidationError = models.ValidationError

// BackendError wraps a failed store or upload call. The caller's state is left as it was.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

func backendError(op string, err error) error {
	if err == nil {
		return nil
	}
	var be *BackendError
	if errors.As(err, &be) {
		return err
	}
	return &BackendError{Op: op, Err: err}
}
