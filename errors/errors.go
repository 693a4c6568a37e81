package errors

import (
	"github.com/gofiber/fiber/v2"
)

func RaiseError(context *fiber.Ctx, status int, message string, data any) error {
	return context.Status(status).JSON(fiber.Map{
		"status":  "error",
		"message": message,
		"data":    data})
}

func RaisePermissionsError(context *fiber.Ctx, data any) error {
	return RaiseError(context, fiber.StatusUnauthorized, "lack of permissions", data)
}

func RaiseForbiddenError(context *fiber.Ctx, message string) error {
	return RaiseError(context, fiber.StatusForbidden, message, nil)
}

func RaiseInternalServerError(context *fiber.Ctx, data any) error {
	return RaiseError(context, fiber.StatusInternalServerError, "internal error", data)
}

func RaiseBadRequestError(context *fiber.Ctx, message string) error {
	return RaiseError(context, fiber.StatusBadRequest, message, nil)
}

func RaiseNotFoundError(context *fiber.Ctx, message string) error {
	return RaiseError(context, fiber.StatusNotFound, message, nil)
}

func RaiseConflictError(context *fiber.Ctx, message string) error {
	return RaiseError(context, fiber.StatusConflict, message, nil)
}

// Respond writes the envelope matching the class of err. Errors outside the
// domain taxonomy become a generic internal error.
func Respond(context *fiber.Ctx, err error) error {
	var domainErr *Error
	if !As(err, &domainErr) {
		return RaiseInternalServerError(context, nil)
	}
	switch {
	case Is(err, ErrInvalidRequest):
		return RaiseBadRequestError(context, domainErr.Message)
	case Is(err, ErrNotFound):
		return RaiseNotFoundError(context, domainErr.Message)
	case Is(err, ErrInsufficient), Is(err, ErrUnavailable):
		return RaiseConflictError(context, domainErr.Message)
	case Is(err, ErrForbidden):
		return RaiseForbiddenError(context, domainErr.Message)
	}
	return RaiseInternalServerError(context, nil)
}
