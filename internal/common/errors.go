package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Error kinds. Wrap them through the constructors below so callers can
// match with errors.Is while the client still gets a specific message.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidState = errors.New("invalid state")
	ErrValidation   = errors.New("validation failed")
)

// DomainError carries a client-safe message alongside its kind.
type DomainError struct {
	Kind    error
	Message string
}

func (e *DomainError) Error() string { return e.Message }

func (e *DomainError) Unwrap() error { return e.Kind }

func newDomainError(kind error, format string, args ...any) error {
	return &DomainError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) error {
	return newDomainError(ErrNotFound, format, args...)
}

func Conflict(format string, args ...any) error {
	return newDomainError(ErrConflict, format, args...)
}

func Forbidden(format string, args ...any) error {
	return newDomainError(ErrForbidden, format, args...)
}

func InvalidState(format string, args ...any) error {
	return newDomainError(ErrInvalidState, format, args...)
}

func Validation(format string, args ...any) error {
	return newDomainError(ErrValidation, format, args...)
}

// Unauthorized wraps the internal cause; the client only ever sees "Unauthorized".
func Unauthorized(cause string) error {
	return &DomainError{Kind: ErrUnauthorized, Message: cause}
}

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Detail string `json:"detail"`
}

// ToHTTPError maps an error onto an *echo.HTTPError. HTTP errors pass through unchanged.
func ToHTTPError(err error) *echo.HTTPError {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}

	var de *DomainError
	if errors.As(err, &de) {
		switch {
		case errors.Is(de, ErrUnauthorized):
			return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized").SetInternal(err)
		case errors.Is(de, ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, de.Message)
		case errors.Is(de, ErrConflict):
			return echo.NewHTTPError(http.StatusConflict, de.Message)
		case errors.Is(de, ErrForbidden):
			return echo.NewHTTPError(http.StatusForbidden, de.Message)
		case errors.Is(de, ErrInvalidState), errors.Is(de, ErrValidation):
			return echo.NewHTTPError(http.StatusBadRequest, de.Message)
		}
	}

	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error").SetInternal(err)
}

// HTTPErrorHandler renders every error as {"detail": "..."} and logs server errors.
func HTTPErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		he := ToHTTPError(err)
		if he.Code >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		} else if he.Code == http.StatusUnauthorized && he.Internal != nil {
			log.Debug("authentication rejected", zap.String("path", c.Path()), zap.Error(he.Internal))
		}

		detail := fmt.Sprint(he.Message)
		if he.Code == http.StatusUnauthorized {
			detail = "Unauthorized"
		}

		var respErr error
		if c.Request().Method == http.MethodHead {
			respErr = c.NoContent(he.Code)
		} else {
			respErr = c.JSON(he.Code, ErrorBody{Detail: detail})
		}
		if respErr != nil {
			log.Warn("failed to write error response", zap.Error(respErr))
		}
	}
}
