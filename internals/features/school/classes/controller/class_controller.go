// file: internals/features/school/classes/controller/class_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"schoolmanagement_backend/internals/features/school/classes/dto"
	"schoolmanagement_backend/internals/features/school/classes/service"
	helper "schoolmanagement_backend/internals/helpers"
	"schoolmanagement_backend/internals/repositories"
)

type ClassController struct {
	Service   *service.ClassService
	Validator *validator.Validate
}

func NewClassController(svc *service.ClassService) *ClassController {
	return &ClassController{Service: svc, Validator: validator.New()}
}

// GET /api/classes?teacher_id=&include_inactive=
func (h *ClassController) ListClasses(c *fiber.Ctx) error {
	teacherID, err := helper.QueryUint(c, "teacher_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	incl, err := helper.QueryBool(c, "include_inactive")
	if err != nil {
		return helper.FromError(c, err)
	}

	ctx := c.UserContext()
	list, err := h.Service.List(ctx, repositories.ClassFilter{
		TeacherID:       teacherID,
		IncludeInactive: incl != nil && *incl,
	})
	if err != nil {
		return helper.FromError(c, err)
	}

	// cache nama guru per request
	names := map[uint]string{}
	out := make([]dto.ClassResponse, 0, len(list))
	for i := range list {
		m := &list[i]
		var tName string
		if m.ClassTeacherID != nil {
			n, ok := names[*m.ClassTeacherID]
			if !ok {
				n = h.Service.TeacherName(ctx, m)
				names[*m.ClassTeacherID] = n
			}
			tName = n
		}
		out = append(out, dto.FromModel(m, tName))
	}
	return helper.SuccessList(c, len(out), out)
}

// GET /api/classes/:id
func (h *ClassController) GetClass(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	m, err := h.Service.Get(c.UserContext(), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.Success(c, "Detail kelas", dto.FromModel(m, h.Service.TeacherName(c.UserContext(), m)))
}

// POST /api/classes
func (h *ClassController) CreateClass(c *fiber.Ctx) error {
	var req dto.ClassCreateReq
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid input")
	}
	req.Normalize()
	if err := h.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	m := req.ToModel()
	if err := h.Service.Create(c.UserContext(), m); err != nil {
		return helper.FromError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Kelas berhasil ditambahkan",
		dto.FromModel(m, h.Service.TeacherName(c.UserContext(), m)))
}

// PATCH /api/classes/:id
func (h *ClassController) PatchClass(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.ClassPatchReq
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
	return helper.Success(c, "Kelas berhasil diperbarui", dto.FromModel(m, h.Service.TeacherName(c.UserContext(), m)))
}

// DELETE /api/classes/:id
func (h *ClassController) DeleteClass(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := h.Service.Delete(c.UserContext(), id); err != nil {
		return helper.FromError(c, err)
	}
	return helper.Success(c, "Kelas berhasil dihapus", fiber.Map{"id": id})
}
