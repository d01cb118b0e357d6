package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/saeid-a/PowerScaleBack/internal/models"
	"github.com/saeid-a/PowerScaleBack/internal/planbuilder"
	"github.com/saeid-a/PowerScaleBack/internal/services"
	log "github.com/sirupsen/logrus"
)

func currentUserID(c *fiber.Ctx) (int64, error) {
	userIDStr, ok := c.Locals("user_id").(string)
	if !ok {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseInt(userIDStr, 10, 64)
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}

// mapServiceError translates service and builder errors into JSON responses.
func mapServiceError(c *fiber.Ctx, err error) error {
	var validationErr *models.ValidationError
	var backendErr *services.BackendError

	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).
			JSON(fiber.Map{"error": validationErr.Message, "field": validationErr.Field})
	case errors.Is(err, planbuilder.ErrEmptyDay):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Please enter a name for the day or add an item"})
	case errors.Is(err, planbuilder.ErrUnknownMode), errors.Is(err, planbuilder.ErrDayOutOfRange),
		errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid email or password"})
	case errors.Is(err, planbuilder.ErrItemNotFound), errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	case errors.Is(err, services.ErrEmailTaken):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email already exists"})
	case errors.Is(err, planbuilder.ErrInvalidState):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Action not allowed at this step"})
	case errors.Is(err, services.ErrInvalidCode):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid code"})
	case errors.Is(err, planbuilder.ErrUnsupportedMode):
		return c.Status(fiber.StatusNotImplemented).JSON(fiber.Map{"error": "Uploading a sheet is not supported yet"})
	case errors.Is(err, services.ErrStorageUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).
			JSON(fiber.Map{"error": "Storage service is not configured"})
	case errors.As(err, &backendErr):
		log.WithError(err).WithField("path", c.Path()).Error("backend request failed")
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Something went wrong, please try again"})
	default:
		log.WithError(err).WithField("path", c.Path()).Error("unhandled request error")
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to process request"})
	}
}
