package controller

import (
	"bookshelf-ai-be/internal/dto"
	"bookshelf-ai-be/internal/pkg/serverutils"
	"bookshelf-ai-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IBookController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	Reembed(ctx *fiber.Ctx) error
}

type bookController struct {
	bookService service.IBookService
}

func NewBookController(bookService service.IBookService) IBookController {
	return &bookController{
		bookService: bookService,
	}
}

func (c *bookController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/book/v1")
	h.Get("", c.List)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Delete(":id", c.Delete)
	h.Post(":id/embed", c.Reembed)
}

func (c *bookController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateBookRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.bookService.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create book", res))
}

func (c *bookController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid book id")
	}

	res, err := c.bookService.Show(ctx.Context(), id)
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "Book not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show book", res))
}

func (c *bookController) List(ctx *fiber.Ctx) error {
	res, err := c.bookService.List(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list books", res))
}

// Reembed queues a forced embedding job, replacing any stored vector.
// Meant for operators after an embedding-model change.
func (c *bookController) Reembed(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid book id")
	}

	book, err := c.bookService.Show(ctx.Context(), id)
	if err != nil {
		return err
	}
	if book == nil {
		return fiber.NewError(fiber.StatusNotFound, "Book not found")
	}

	if err := c.bookService.QueueEmbedding(ctx.Context(), id, true); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success queue re-embedding", nil))
}

func (c *bookController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid book id")
	}

	if err := c.bookService.Delete(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete book", nil))
}
