package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/rienbien8/Bloomix-backend/internal/core/domain"
	"github.com/rienbien8/Bloomix-backend/internal/pkg/geospatial"
	"github.com/rienbien8/Bloomix-backend/internal/pkg/playlist"
	"github.com/rienbien8/Bloomix-backend/internal/pkg/validation"
)

// APIError is a structured error response.
type APIError struct {
	Status    int                     `json:"status"`
	Code      string                  `json:"code"`    // Error code: bad_request, not_found, internal_error, etc.
	Message   string                  `json:"message"` // Human-readable message
	Fields    []validation.FieldError `json:"fields,omitempty"`
	RequestID string                  `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: requestID(c),
	})
}

func requestID(c *fiber.Ctx) string {
	reqID, _ := c.Locals("requestid").(string)
	return reqID
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, 400, "bad_request", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, 404, "not_found", msg)
}

// errUnprocessable returns a 422 error.
func errUnprocessable(c *fiber.Ctx, msg string) error {
	return newError(c, 422, "unprocessable", msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, 500, "internal_error", msg)
}

// errUnavailable returns a 503 error.
func errUnavailable(c *fiber.Ctx, msg string) error {
	return newError(c, 503, "unavailable", msg)
}

// errValidation returns a 422 error listing every failed field.
func errValidation(c *fiber.Ctx, verr *validation.Error) error {
	return c.Status(422).JSON(APIError{
		Status:    422,
		Code:      "validation_failed",
		Message:   verr.Error(),
		Fields:    verr.Fields,
		RequestID: requestID(c),
	})
}

// mapError renders a service error with the status its kind calls for.
func mapError(c *fiber.Ctx, err error) error {
	var (
		verr     *validation.Error
		decode   *geospatial.DecodeError
		upstream *domain.UpstreamError
	)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		// the timeout middleware turns this into a 408
		return err
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, playlist.ErrNoCandidates):
		return errNotFound(c, err.Error())
	case errors.As(err, &verr):
		return errValidation(c, verr)
	case errors.As(err, &decode):
		return errUnprocessable(c, decode.Error())
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, playlist.ErrInvalidArgument):
		return errUnprocessable(c, err.Error())
	case errors.Is(err, domain.ErrUnavailable):
		return errUnavailable(c, err.Error())
	case errors.As(err, &upstream):
		if upstream.Status >= 400 && upstream.Status < 500 {
			return newError(c, upstream.Status, "upstream_rejected", upstream.Error())
		}
		return newError(c, 502, "bad_gateway", upstream.Error())
	}
	LoggerFromCtx(c.UserContext()).Error("request failed",
		"method", c.Method(), "path", c.Path(), "error", err)
	return errInternal(c, "internal error")
}
