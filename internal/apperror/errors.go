package apperror

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("resource not found")
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("resource conflict")
	ErrUpstreamFailure    = errors.New("upstream service failure")
	ErrUpstreamTimeout    = errors.New("upstream service timeout")
	ErrPersistenceFailure = errors.New("persistence failure")
)

// HTTPStatus maps domain errors to HTTP status codes.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict), IsUniqueViolation(err):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// PublicMessage returns the text safe to show a client for err.
// 4xx errors keep their (locally built) message, everything else is generic.
func PublicMessage(err error) string {
	switch {
	case errors.Is(err, ErrPersistenceFailure):
		return "Your submission was not recorded. It is safe to submit again."
	case errors.Is(err, ErrUpstreamTimeout):
		return "The code execution service took too long to respond. Please try again."
	case errors.Is(err, ErrUpstreamFailure):
		return "The code execution service is unavailable right now. Please try again."
	}
	if HTTPStatus(err) < http.StatusInternalServerError {
		return err.Error()
	}
	return "Internal server error"
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
