package server

import (
	"errors"

	"socialhub/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint. An id that
// cannot name a stored record is reported as a missing resource with 404, the
// same answer an unknown numeric id gets. On failure the response is written
// and errResponseWritten is returned.
func parseID(c *fiber.Ctx, param, resource string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError(resource, c.Params(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// parseBody decodes the JSON request body into dest, writing a 400 on failure.
func parseBody(c *fiber.Ctx, dest any) error {
	if err := c.BodyParser(dest); err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
		return errResponseWritten
	}
	return nil
}

// respond writes err with the status derived from its code.
func respond(c *fiber.Ctx, err error) error {
	return models.Respond(c, err)
}
