package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mapmymeal/api/internal/client"
	"github.com/mapmymeal/api/internal/service"
)

// APIResponse describes the standard envelope returned by the API.
type APIResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// FieldError is the data attached to validation failures.
type FieldError struct {
	Field string `json:"field"`
}

// StageFailure is the data attached to pipeline stage failures.
type StageFailure struct {
	Stage    service.Stage    `json:"stage"`
	Severity service.Severity `json:"severity"`
}

// Success sends a successful response using the shared envelope format.
func Success(c echo.Context, status int, message string, data any) error {
	if status == 0 {
		status = http.StatusOK
	}
	return c.JSON(status, APIResponse{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// Error sends an error response using the shared envelope format.
func Error(c echo.Context, status int, message string) error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return c.JSON(status, APIResponse{
		Status:  "error",
		Message: message,
	})
}

// Fail maps a service error to its HTTP status and writes it with the
// shared envelope. Validation and stage failures carry their details as data.
func Fail(c echo.Context, err error) error {
	payload := APIResponse{Status: "error", Message: err.Error()}

	var verr service.ValidationError
	var serr *service.StageError
	switch {
	case errors.As(err, &verr):
		payload.Data = FieldError{Field: verr.Field}
	case errors.As(err, &serr):
		payload.Data = StageFailure{Stage: serr.Stage, Severity: serr.Severity}
	}
	return c.JSON(statusFor(err), payload)
}

func statusFor(err error) int {
	var verr service.ValidationError
	var serr *service.StageError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotSubmitted):
		return http.StatusConflict
	case errors.Is(err, client.ErrNotFound), errors.Is(err, service.ErrNoRestaurants):
		return http.StatusNotFound
	case errors.As(err, &serr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
