package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"schoolmanagement_backend/internals/features/contacts/partners/dto"
	"schoolmanagement_backend/internals/features/contacts/partners/service"
	helper "schoolmanagement_backend/internals/helpers"
)

type PartnerController struct {
	Service   *service.PartnerService
	Validator *validator.Validate
}

func NewPartnerController(svc *service.PartnerService) *PartnerController {
	return &PartnerController{Service: svc, Validator: validator.New()}
}

// GET /api/partners
func (h *PartnerController) ListPartners(c *fiber.Ctx) error {
	list, err := h.Service.List(c.UserContext())
	if err != nil {
		return helper.FromError(c, err)
	}
	out := make([]dto.PartnerResponse, 0, len(list))
	for i := range list {
		out = append(out, dto.FromModel(&list[i]))
	}
	return helper.SuccessList(c, len(out), out)
}

// POST /api/partners
func (h *PartnerController) CreatePartner(c *fiber.Ctx) error {
	var req dto.PartnerCreateReq
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid input")
	}
	if err := h.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	m := req.ToModel()
	if err := h.Service.Create(c.UserContext(), m); err != nil {
		return helper.FromError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Partner berhasil ditambahkan", dto.FromModel(m))
}
