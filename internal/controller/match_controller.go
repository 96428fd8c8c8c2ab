package controller

import (
	"navi-be/internal/dto"
	"navi-be/internal/pkg/serverutils"
	"navi-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IMatchController interface {
	RegisterRoutes(r fiber.Router)
	Find(ctx *fiber.Ctx) error
	Stop(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
	ListByPersona(ctx *fiber.Ctx) error
}

type matchController struct {
	matchService service.IMatchService
}

func NewMatchController(matchService service.IMatchService) IMatchController {
	return &matchController{
		matchService: matchService,
	}
}

func (c *matchController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/match/v1")
	h.Post("find", c.Find)
	h.Post("stop", c.Stop)
	h.Get("status", c.Status)
	h.Get("persona/:id", c.ListByPersona)
}

func (c *matchController) Find(ctx *fiber.Ctx) error {
	var req dto.FindMatchesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.matchService.FindMatches(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Match run started", res))
}

func (c *matchController) Stop(ctx *fiber.Ctx) error {
	res, err := c.matchService.Stop(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Stop requested", res))
}

func (c *matchController) Status(ctx *fiber.Ctx) error {
	res, err := c.matchService.Status(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get status", res))
}

func (c *matchController) ListByPersona(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid persona id")
	}

	res, err := c.matchService.ListMatches(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list matches", res))
}
