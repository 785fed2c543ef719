package serverutils

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"ai-voicetutor-be/internal/entity"
	"ai-voicetutor-be/pkg/authverify"
)

// IdentityEnsurer mirrors the piece of the identity service the middleware
// needs, so this package does not depend on the service layer.
type IdentityEnsurer interface {
	EnsureUserExists(ctx context.Context, identity authverify.Identity) (*entity.User, error)
}

// AuthMiddleware verifies the bearer token and guarantees a matching local
// user row exists before the handler runs. Handlers read the caller from
// Locals("user_id").
func AuthMiddleware(verifier authverify.Verifier, ensurer IdentityEnsurer) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, "Missing token"))
		}
		token := authHeader[7:]

		identity, err := verifier.Verify(ctx.UserContext(), token)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse(401, "Invalid token"))
		}

		user, err := ensurer.EnsureUserExists(ctx.UserContext(), *identity)
		if err != nil {
			return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse(500, "Failed to resolve user identity"))
		}

		ctx.Locals("user_id", user.Id.String())
		ctx.Locals("user_email", user.Email)
		return ctx.Next()
	}
}
