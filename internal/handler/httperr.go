package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"pharmacy-backend/internal/dto"
	apperr "pharmacy-backend/internal/errors"
)

// respondError translates a service error into an HTTP status and a display
// message. The message is the wrapped text, never a raw transport fault.
func respondError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperr.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperr.ErrAuthentication):
		status = http.StatusBadGateway
	case errors.Is(err, apperr.ErrGatewayRequest), errors.Is(err, apperr.ErrTransport):
		status = http.StatusBadGateway
	case errors.Is(err, apperr.ErrStorage):
		status = http.StatusServiceUnavailable
	}

	return c.JSON(status, dto.ErrorResponse{Message: err.Error()})
}
