package controller

import (
	"ai-voicetutor-be/internal/pkg/logger"
	internalWS "ai-voicetutor-be/internal/websocket"
	"ai-voicetutor-be/pkg/authverify"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type IProgressController interface {
	RegisterRoutes(r fiber.Router)
	ServeWs(ctx *fiber.Ctx) error
}

type progressController struct {
	verifier authverify.Verifier
	hub      *internalWS.Hub
	logger   logger.ILogger
}

func NewProgressController(verifier authverify.Verifier, hub *internalWS.Hub, log logger.ILogger) IProgressController {
	return &progressController{
		verifier: verifier,
		hub:      hub,
		logger:   log,
	}
}

func (c *progressController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/talk/v1")
	h.Get("ws/progress", c.ServeWs)
}

// ServeWs upgrades an authenticated connection onto the progress feed.
// Browsers cannot set headers on websocket handshakes, so the token may also
// arrive as a query parameter.
func (c *progressController) ServeWs(ctx *fiber.Ctx) error {
	token := ctx.Query("token")
	if token == "" {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			token = authHeader[7:]
		}
	}
	if token == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token"})
	}

	identity, err := c.verifier.Verify(ctx.UserContext(), token)
	if err != nil {
		c.logger.Warn("progress", "Invalid token in WS handshake", map[string]interface{}{"error": err.Error()})
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	userID := identity.Subject

	if websocket.IsWebSocketUpgrade(ctx) {
		return websocket.New(func(conn *websocket.Conn) {
			c.logger.Info("progress", "WebSocket session started", map[string]interface{}{"user_id": userID})
			internalWS.ServeWs(c.hub, conn, userID)
			c.logger.Info("progress", "WebSocket session ended", map[string]interface{}{"user_id": userID})
		})(ctx)
	}
	return fiber.ErrUpgradeRequired
}
