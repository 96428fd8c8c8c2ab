package controller

import (
	"navi-be/internal/dto"
	"navi-be/internal/pkg/serverutils"
	"navi-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPersonaController interface {
	RegisterRoutes(r fiber.Router)
	Save(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
}

type personaController struct {
	personaService service.IPersonaService
}

func NewPersonaController(personaService service.IPersonaService) IPersonaController {
	return &personaController{
		personaService: personaService,
	}
}

func (c *personaController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/persona/v1")
	h.Post("", c.Save)
	h.Get("", c.List)
	h.Get(":id", c.Show)
}

func (c *personaController) Save(ctx *fiber.Ctx) error {
	var req dto.SavePersonaRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.personaService.Save(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success save persona", res))
}

func (c *personaController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid persona id")
	}

	res, err := c.personaService.Show(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show persona", res))
}

func (c *personaController) List(ctx *fiber.Ctx) error {
	res, err := c.personaService.List(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list personas", res))
}
