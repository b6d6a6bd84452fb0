package controller

import (
	"fundoo-notes-be/internal/dto"
	"fundoo-notes-be/internal/pkg/serverutils"
	"fundoo-notes-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ILabelController interface {
	RegisterRoutes(r fiber.Router)
}

type labelController struct {
	service service.ILabelService
	auth    fiber.Handler
}

func NewLabelController(service service.ILabelService, auth fiber.Handler) ILabelController {
	return &labelController{service: service, auth: auth}
}

func (c *labelController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/v1", c.auth)
	h.Post("/label/create", c.Create)
	h.Get("/label", c.List)
	h.Get("/label/:id", c.Show)
	h.Put("/label/:id", c.Update)
	h.Delete("/label/:id", c.Delete)
}

func (c *labelController) Create(ctx *fiber.Ctx) error {
	userId, err := serverutils.AuthenticatedUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateLabelRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success Create Label", res))
}

func (c *labelController) List(ctx *fiber.Ctx) error {
	userId, err := serverutils.AuthenticatedUserId(ctx)
	if err != nil {
		return err
	}

	res, err := c.service.List(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *labelController) Show(ctx *fiber.Ctx) error {
	userId, err := serverutils.AuthenticatedUserId(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.ErrBadRequest
	}

	res, err := c.service.Show(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *labelController) Update(ctx *fiber.Ctx) error {
	userId, err := serverutils.AuthenticatedUserId(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.ErrBadRequest
	}

	var req dto.UpdateLabelRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Update(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success Update Label", res))
}

func (c *labelController) Delete(ctx *fiber.Ctx) error {
	userId, err := serverutils.AuthenticatedUserId(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.ErrBadRequest
	}

	if err := c.service.Delete(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success Delete Label", nil))
}
