package controller

import (
	"fundoo-notes-be/internal/dto"
	"fundoo-notes-be/internal/pkg/serverutils"
	"fundoo-notes-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router)
}

type userController struct {
	service service.IAuthService
}

func NewUserController(service service.IAuthService) IUserController {
	return &userController{service: service}
}

// user routes carry no auth middleware: they are how a session starts
func (c *userController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/v1")
	h.Post("/user/register", c.Register)
	h.Get("/user/verify", c.Verify)
	h.Post("/user/login", c.Login)
}

func (c *userController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Register(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success Register, check your mail to verify", res))
}

func (c *userController) Verify(ctx *fiber.Ctx) error {
	token := ctx.Query("token")
	if token == "" {
		return serverutils.ErrBadRequest
	}

	if err := c.service.VerifyEmail(ctx.Context(), token); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success Verify Email", nil))
}

func (c *userController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Login(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success Login", res))
}
