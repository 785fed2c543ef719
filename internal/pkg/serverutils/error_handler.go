package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"ai-voicetutor-be/internal/pkg/apperrors"
)

func statusForKind(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindInput:
		return fiber.StatusBadRequest
	case apperrors.KindAuth:
		return fiber.StatusUnauthorized
	case apperrors.KindNotFound:
		return fiber.StatusNotFound
	case apperrors.KindConflict:
		return fiber.StatusConflict
	case apperrors.KindTranscription, apperrors.KindGeneration, apperrors.KindSynthesis:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandlerMiddleware converts classified errors bubbling out of handlers
// into the standard error envelope. Unclassified errors become 500s.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Code, fiberErr.Message))
		}

		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			status := statusForKind(appErr.Kind)
			return ctx.Status(status).JSON(KindedErrorResponse(status, string(appErr.Kind), appErr.Message))
		}

		return ctx.Status(fiber.StatusInternalServerError).
			JSON(ErrorResponse(fiber.StatusInternalServerError, "Internal server error"))
	}
}
