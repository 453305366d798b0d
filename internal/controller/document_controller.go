package controller

import (
	"github.com/gofiber/fiber/v2"

	"pnm-assistant-be/internal/dto"
	"pnm-assistant-be/internal/pkg/serverutils"
	"pnm-assistant-be/internal/service"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Ingest(ctx *fiber.Ctx) error
}

type documentController struct {
	publisherService service.IIngestPublisherService
}

func NewDocumentController(publisherService service.IIngestPublisherService) IDocumentController {
	return &documentController{
		publisherService: publisherService,
	}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/documents")
	h.Post("", c.Ingest)
}

func (c *documentController) Ingest(ctx *fiber.Ctx) error {
	var req dto.IngestDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.publisherService.Publish(ctx.Context(), &req); err != nil {
		return err
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Document queued for ingestion", &dto.IngestDocumentResponse{
		Source: req.Source,
		Queued: true,
	}))
}
