// file: internals/features/school/teachers/controller/teacher_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"schoolmanagement_backend/internals/features/school/teachers/dto"
	"schoolmanagement_backend/internals/features/school/teachers/service"
	helper "schoolmanagement_backend/internals/helpers"
)

type TeacherController struct {
	Service   *service.TeacherService
	Roster    *service.RosterService
	Validator *validator.Validate
}

func NewTeacherController(svc *service.TeacherService, roster *service.RosterService) *TeacherController {
	return &TeacherController{Service: svc, Roster: roster, Validator: validator.New()}
}

// GET /api/teachers (?active=true → hanya guru aktif)
func (h *TeacherController) ListTeachers(c *fiber.Ctx) error {
	onlyActive, err := helper.QueryBool(c, "active")
	if err != nil {
		return helper.FromError(c, err)
	}
	list, err := h.Service.List(c.UserContext(), onlyActive != nil && *onlyActive)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.SuccessList(c, len(list), dto.ToListItems(list))
}

// GET /api/teachers/:id
func (h *TeacherController) GetTeacher(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	m, err := h.Service.Get(c.UserContext(), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.Success(c, "Detail guru", dto.FromModel(m))
}

// POST /api/teachers
func (h *TeacherController) CreateTeacher(c *fiber.Ctx) error {
	var req dto.TeacherCreateReq
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
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Guru berhasil ditambahkan", dto.FromModel(m))
}

// PATCH /api/teachers/:id
func (h *TeacherController) PatchTeacher(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.TeacherPatchReq
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
	return helper.Success(c, "Guru berhasil diperbarui", dto.FromModel(m))
}

// DELETE /api/teachers/:id
func (h *TeacherController) DeleteTeacher(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := h.Service.Delete(c.UserContext(), id); err != nil {
		return helper.FromError(c, err)
	}
	return helper.Success(c, "Guru berhasil dihapus", fiber.Map{"id": id})
}

// POST /api/teachers/:id/toggle-students
func (h *TeacherController) ToggleStudents(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	res, err := h.Roster.ToggleStudents(c.UserContext(), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.Success(c, res.Message, res)
}
