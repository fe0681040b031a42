package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"storefront/internal/logger"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// 500。原因はログだけに出す
func dbError(ctx context.Context, op string, err error) error {
	logger.Error(ctx, "db error", "op", op, "error", err)
	return NewHTTPError(http.StatusInternalServerError, "db error")
}

func unauthorized() error {
	return NewHTTPError(http.StatusUnauthorized, "unauthorized")
}

func badRequest(msg string) error {
	return NewHTTPError(http.StatusBadRequest, msg)
}

func notFound(msg string) error {
	return NewHTTPError(http.StatusNotFound, msg)
}
