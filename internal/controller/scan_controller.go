package controller

import (
	"bookshelf-ai-be/internal/dto"
	"bookshelf-ai-be/internal/pkg/serverutils"
	"bookshelf-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IScanController interface {
	RegisterRoutes(r fiber.Router)
	ReplaceSeeds(ctx *fiber.Ctx) error
	ListSeeds(ctx *fiber.Ctx) error
}

type scanController struct {
	scanService service.IScanService
}

func NewScanController(scanService service.IScanService) IScanController {
	return &scanController{
		scanService: scanService,
	}
}

func (c *scanController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/scan/v1")
	h.Post("", c.ReplaceSeeds)
	h.Get("seeds", c.ListSeeds)
}

// ReplaceSeeds receives the books extracted from a shelf photo and swaps
// them in as the new seed set.
func (c *scanController) ReplaceSeeds(ctx *fiber.Ctx) error {
	var req dto.ReplaceSeedsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.scanService.ReplaceSeeds(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success replace seeds", res))
}

func (c *scanController) ListSeeds(ctx *fiber.Ctx) error {
	res, err := c.scanService.ListSeeds(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list seeds", res))
}
