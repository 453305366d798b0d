package controller

import (
	"github.com/gofiber/fiber/v2"

	"pnm-assistant-be/internal/dto"
	"pnm-assistant-be/internal/pkg/serverutils"
	"pnm-assistant-be/internal/service"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
	ListSessions(ctx *fiber.Ctx) error
	ListThreads(ctx *fiber.Ctx) error
	GetChatHistory(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{
		chatService: chatService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/")
	h.Post("chat", c.Chat)
	h.Get("sessions", c.ListSessions)
	h.Get("threads", c.ListThreads)
	h.Get("history/:sessionId", c.GetChatHistory)
}

func (c *chatController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.Chat(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success chat", res))
}

func (c *chatController) ListSessions(ctx *fiber.Ctx) error {
	res, err := c.chatService.ListSessions(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list sessions", res))
}

func (c *chatController) ListThreads(ctx *fiber.Ctx) error {
	res, err := c.chatService.ListThreads(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list threads", res))
}

func (c *chatController) GetChatHistory(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("sessionId")

	res, err := c.chatService.GetChatHistory(ctx.Context(), sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get chat history", res))
}
