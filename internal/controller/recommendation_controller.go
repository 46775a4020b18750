package controller

import (
	"bookshelf-ai-be/internal/dto"
	"bookshelf-ai-be/internal/pkg/serverutils"
	"bookshelf-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IRecommendationController interface {
	RegisterRoutes(r fiber.Router)
	ByMetadata(ctx *fiber.Ctx) error
	WithLLM(ctx *fiber.Ctx) error
	FilterOptions(ctx *fiber.Ctx) error
	ClearCache(ctx *fiber.Ctx) error
}

type recommendationController struct {
	recommendationService service.IRecommendationService
}

func NewRecommendationController(recommendationService service.IRecommendationService) IRecommendationController {
	return &recommendationController{
		recommendationService: recommendationService,
	}
}

func (c *recommendationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/recommendation/v1")
	h.Get("metadata", c.ByMetadata)
	h.Post("llm", c.WithLLM)
	h.Get("filter-options", c.FilterOptions)
	h.Delete("cache", c.ClearCache)
}

func (c *recommendationController) ByMetadata(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 0)

	res, err := c.recommendationService.RecommendByMetadata(ctx.Context(), limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success recommend by metadata", res))
}

// WithLLM runs the filtered LLM flow when filters are supplied, and the
// unfiltered flow (with its metadata fallback) otherwise.
func (c *recommendationController) WithLLM(ctx *fiber.Ctx) error {
	var req dto.RecommendationRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return err
		}
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	var (
		res *dto.RecommendationResponse
		err error
	)
	if req.Filters != nil {
		res, err = c.recommendationService.RecommendWithLLMAndFilters(ctx.Context(), req.Filters.ToFilters(), req.Count, req.ExcludeTitles)
	} else {
		res, err = c.recommendationService.RecommendWithLLM(ctx.Context(), req.Count)
	}
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success recommend with llm", res))
}

func (c *recommendationController) FilterOptions(ctx *fiber.Ctx) error {
	res, err := c.recommendationService.GetAvailableFilterOptions(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list filter options", res))
}

func (c *recommendationController) ClearCache(ctx *fiber.Ctx) error {
	res, err := c.recommendationService.ClearCache(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success clear recommendation cache", res))
}
