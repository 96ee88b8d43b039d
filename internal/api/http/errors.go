package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-locations/internal/weather"
)

// ErrorHandler renders every error as {"status":"error","message":...} with
// a status derived from the error kind. Logging is left to the request
// logger, which records the underlying error with the request id.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code, message := classify(err)
	return c.Status(code).JSON(fiber.Map{
		"status":  "error",
		"message": message,
	})
}

func classify(err error) (int, string) {
	var (
		fiberErr     *fiber.Error
		upstreamErr  *weather.UpstreamError
		malformedErr *weather.MalformedDataError
	)

	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiberErr.Message
	case errors.Is(err, weather.ErrValidation), errors.Is(err, weather.ErrFutureRange):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, weather.ErrNotFound):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, weather.ErrConflict):
		return fiber.StatusConflict, err.Error()
	case errors.As(err, &upstreamErr), errors.As(err, &malformedErr):
		return fiber.StatusBadGateway, err.Error()
	case errors.Is(err, weather.ErrUnavailable):
		return fiber.StatusServiceUnavailable, "Weather service is temporarily unavailable"
	default:
		return fiber.StatusInternalServerError, "Internal server error"
	}
}
