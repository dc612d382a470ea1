package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"schoolmanagement_backend/internals/features/finance/products/dto"
	"schoolmanagement_backend/internals/features/finance/products/service"
	helper "schoolmanagement_backend/internals/helpers"
)

type ProductController struct {
	Service   *service.ProductService
	Validator *validator.Validate
}

func NewProductController(svc *service.ProductService) *ProductController {
	return &ProductController{Service: svc, Validator: validator.New()}
}

// GET /api/products
func (h *ProductController) ListProducts(c *fiber.Ctx) error {
	list, err := h.Service.List(c.UserContext())
	if err != nil {
		return helper.FromError(c, err)
	}
	out := make([]dto.ProductResponse, 0, len(list))
	for i := range list {
		out = append(out, dto.FromModel(&list[i]))
	}
	return helper.SuccessList(c, len(out), out)
}

// POST /api/products
func (h *ProductController) CreateProduct(c *fiber.Ctx) error {
	var req dto.ProductCreateReq
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
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Produk berhasil ditambahkan", dto.FromModel(m))
}

// PATCH /api/products/:id
func (h *ProductController) PatchProduct(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.ProductPatchReq
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid input")
	}
	if err := h.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	m, err := h.Service.Update(c.UserContext(), id, req.Apply)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.Success(c, "Produk berhasil diperbarui", dto.FromModel(m))
}
