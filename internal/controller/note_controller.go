package controller

import (
	"fundoo-notes-be/internal/constant"
	"fundoo-notes-be/internal/dto"
	"fundoo-notes-be/internal/pkg/serverutils"
	"fundoo-notes-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type INoteController interface {
	RegisterRoutes(r fiber.Router)
}

type noteController struct {
	service service.INoteService
	auth    fiber.Handler
}

func NewNoteController(service service.INoteService, auth fiber.Handler) INoteController {
	return &noteController{service: service, auth: auth}
}

func (c *noteController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/v1", c.auth)
	h.Post("/note/create", c.Create)
	h.Get("/note", c.List)
	h.Get("/note/:id", c.Show)
	h.Put("/note/:id", c.Update)
	h.Delete("/note/:id", c.Delete)
	h.Put("/note/:id/archive", c.ToggleArchive)
	h.Put("/note/:id/trash", c.ToggleTrash)
	h.Put("/note/:id/image", c.AttachImage)
	h.Post("/note/:id/collaborator", c.AddCollaborator)
	h.Delete("/note/:id/collaborator", c.RemoveCollaborator)
	h.Post("/note/:id/label", c.AddLabel)
	h.Delete("/note/:id/label", c.RemoveLabel)
}

func (c *noteController) Create(ctx *fiber.Ctx) error {
	userId, err := serverutils.AuthenticatedUserId(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateNoteRequest
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

	return ctx.JSON(serverutils.SuccessResponse("Success Create Note", res))
}

func (c *noteController) List(ctx *fiber.Ctx) error {
	userId, err := serverutils.AuthenticatedUserId(ctx)
	if err != nil {
		return err
	}

	view := ctx.Query("view", constant.NoteViewActive)

	res, err := c.service.List(ctx.Context(), userId, view)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success", res))
}

func (c *noteController) Show(ctx *fiber.Ctx) error {
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

func (c *noteController) Update(ctx *fiber.Ctx) error {
	userId, err := serverutils.AuthenticatedUserId(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.ErrBadRequest
	}

	var req dto.UpdateNoteRequest
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

	return ctx.JSON(serverutils.SuccessResponse("Success Update Note", res))
}

func (c *noteController) Delete(ctx *fiber.Ctx) error {
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

	return ctx.JSON(serverutils.SuccessResponse[any]("Success Delete Note", nil))
}

func (c *noteController) ToggleArchive(ctx *fiber.Ctx) error {
	userId, err := serverutils.AuthenticatedUserId(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.ErrBadRequest
	}

	res, err := c.service.ToggleArchive(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success Toggle Archive", res))
}

func (c *noteController) ToggleTrash(ctx *fiber.Ctx) error {
	userId, err := serverutils.AuthenticatedUserId(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.ErrBadRequest
	}

	res, err := c.service.ToggleTrash(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success Toggle Trash", res))
}

func (c *noteController) AttachImage(ctx *fiber.Ctx) error {
	userId, err := serverutils.AuthenticatedUserId(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.ErrBadRequest
	}

	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		return serverutils.ErrBadRequest
	}

	file, err := fileHeader.Open()
	if err != nil {
		return serverutils.ErrInvalidFile
	}
	defer file.Close()

	res, err := c.service.AttachImage(ctx.Context(), userId, id, fileHeader.Filename, file)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success Attach Image", res))
}

func (c *noteController) AddCollaborator(ctx *fiber.Ctx) error {
	userId, err := serverutils.AuthenticatedUserId(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.ErrBadRequest
	}

	var req dto.AddCollaboratorRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.NoteId = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.AddCollaborator(ctx.Context(), userId, &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success Add Collaborator", nil))
}

func (c *noteController) RemoveCollaborator(ctx *fiber.Ctx) error {
	userId, err := serverutils.AuthenticatedUserId(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.ErrBadRequest
	}

	var req dto.RemoveCollaboratorRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.NoteId = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.RemoveCollaborator(ctx.Context(), userId, &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success Remove Collaborator", nil))
}

func (c *noteController) AddLabel(ctx *fiber.Ctx) error {
	userId, err := serverutils.AuthenticatedUserId(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.ErrBadRequest
	}

	var req dto.NoteLabelRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.NoteId = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.AddLabel(ctx.Context(), userId, &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success Add Label", nil))
}

func (c *noteController) RemoveLabel(ctx *fiber.Ctx) error {
	userId, err := serverutils.AuthenticatedUserId(ctx)
	if err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return serverutils.ErrBadRequest
	}

	var req dto.NoteLabelRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.NoteId = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.RemoveLabel(ctx.Context(), userId, &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success Remove Label", nil))
}
