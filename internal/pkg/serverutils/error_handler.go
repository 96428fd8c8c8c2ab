package serverutils

import (
	"errors"

	"navi-be/pkg/inference"
	"navi-be/pkg/matcher"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware translates domain errors into HTTP statuses.
// Anything unrecognized becomes a 500 with a generic message.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var (
			precondition *matcher.PreconditionError
			validation   *ValidationError
			connectivity *inference.ConnectivityError
			fiberErr     *fiber.Error
		)

		switch {
		case errors.As(err, &validation):
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": validation.Error(),
				"fields":  validation.Fields,
			})
		case errors.As(err, &precondition):
			return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"success": false,
				"message": precondition.Error(),
			})
		case errors.Is(err, matcher.ErrRunInProgress):
			return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		case errors.As(err, &connectivity):
			return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"success": false,
				"message": connectivity.Error(),
			})
		case errors.As(err, &fiberErr):
			return ctx.Status(fiberErr.Code).JSON(fiber.Map{
				"success": false,
				"message": fiberErr.Message,
			})
		default:
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "internal server error",
			})
		}
	}
}
