package controller

import (
	"io"
	"strings"

	"ai-voicetutor-be/internal/dto"
	"ai-voicetutor-be/internal/pkg/serverutils"
	"ai-voicetutor-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ITalkController interface {
	RegisterRoutes(r fiber.Router)
	StartSession(ctx *fiber.Ctx) error
	Turn(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	Sessions(ctx *fiber.Ctx) error
}

type talkController struct {
	talkService    service.ITalkService
	authMiddleware fiber.Handler
}

func NewTalkController(talkService service.ITalkService, authMiddleware fiber.Handler) ITalkController {
	return &talkController{
		talkService:    talkService,
		authMiddleware: authMiddleware,
	}
}

func (c *talkController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/talk/v1")
	h.Use(c.authMiddleware)
	h.Post("session/start", c.StartSession)
	h.Post("session/:id/turn", c.Turn)
	h.Get("session/:id/history", c.History)
	h.Get("sessions", c.Sessions)
}

func callerID(ctx *fiber.Ctx) (uuid.UUID, error) {
	userIdStr, ok := ctx.Locals("user_id").(string)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return uuid.Nil, fiber.ErrUnauthorized
	}
	return userId, nil
}

func (c *talkController) StartSession(ctx *fiber.Ctx) error {
	userId, err := callerID(ctx)
	if err != nil {
		return err
	}

	var req dto.StartSessionRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
		}
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	forceNew := ctx.QueryBool("new", false)

	res, err := c.talkService.StartSession(ctx.UserContext(), userId, &req, forceNew)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session ready", res))
}

// Turn accepts either a multipart form with an "audio" WAV file or a JSON
// body with "text".
func (c *talkController) Turn(ctx *fiber.Ctx) error {
	userId, err := callerID(ctx)
	if err != nil {
		return err
	}

	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid session ID"))
	}

	contentType := ctx.Get(fiber.HeaderContentType)
	if strings.HasPrefix(contentType, fiber.MIMEMultipartForm) {
		fileHeader, err := ctx.FormFile("audio")
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Audio file is required"))
		}
		file, err := fileHeader.Open()
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Could not read audio file"))
		}
		defer file.Close()

		audio, err := io.ReadAll(file)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Could not read audio file"))
		}

		res, err := c.talkService.ProcessAudioTurn(ctx.UserContext(), userId, sessionId, audio)
		if err != nil {
			return err
		}
		return ctx.JSON(serverutils.SuccessResponse("Turn processed", res))
	}

	var req dto.TurnTextRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.talkService.ProcessTextTurn(ctx.UserContext(), userId, sessionId, req.Text)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Turn processed", res))
}

func (c *talkController) History(ctx *fiber.Ctx) error {
	userId, err := callerID(ctx)
	if err != nil {
		return err
	}

	sessionId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid session ID"))
	}

	res, err := c.talkService.GetHistory(ctx.UserContext(), userId, sessionId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session history", res))
}

func (c *talkController) Sessions(ctx *fiber.Ctx) error {
	userId, err := callerID(ctx)
	if err != nil {
		return err
	}

	res, err := c.talkService.GetAllSessions(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("User sessions", res))
}
