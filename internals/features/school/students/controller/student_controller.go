// file: internals/features/school/students/controller/student_controller.go
package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"schoolmanagement_backend/internals/features/school/students/dto"
	"schoolmanagement_backend/internals/features/school/students/service"
	helper "schoolmanagement_backend/internals/helpers"
	"schoolmanagement_backend/internals/helpers/dbtime"
	"schoolmanagement_backend/internals/repositories"
)

type StudentController struct {
	Service   *service.StudentService
	Validator *validator.Validate
}

func NewStudentController(svc *service.StudentService) *StudentController {
	return &StudentController{Service: svc, Validator: validator.New()}
}

// POST /api/students
// 1) name, dob, class_id, partner_id wajib (urut) → 400
// 2) format salah → 400
// 3) class tidak ada → 404, partner tidak ada → 404
// dob dibaca di timezone sekolah (middlewares.SchoolLocation).
func (h *StudentController) CreateStudent(c *fiber.Ctx) error {
	req, err := dto.ParseStudentCreate(c.Body(), dbtime.GetSchoolLocation(c))
	if err != nil {
		return helper.FromError(c, err)
	}

	classID, partnerID, dob := req.ClassID, req.PartnerID, req.DOB
	view, err := h.Service.Create(c.UserContext(), service.CreateStudentInput{
		Name:      req.Name,
		DOB:       &dob,
		ClassID:   &classID,
		PartnerID: &partnerID,
		Note:      req.Note,
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.Success(c, "Siswa berhasil ditambahkan",
		dto.ToCreatedResponse(&view.Student, view.ClassName, view.PartnerName))
}

// GET /api/students?class_id=&teacher_id=&include_inactive=
func (h *StudentController) ListStudents(c *fiber.Ctx) error {
	classID, err := helper.QueryUint(c, "class_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	teacherID, err := helper.QueryUint(c, "teacher_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	incl, err := helper.QueryBool(c, "include_inactive")
	if err != nil {
		return helper.FromError(c, err)
	}

	ctx := c.UserContext()
	list, err := h.Service.List(ctx, repositories.StudentFilter{
		ClassID:         classID,
		TeacherID:       teacherID,
		IncludeInactive: incl != nil && *incl,
	})
	if err != nil {
		return helper.FromError(c, err)
	}

	names := map[uint]string{}
	out := make([]dto.StudentResponse, 0, len(list))
	for i := range list {
		m := &list[i]
		var cName string
		if m.StudentClassID != nil {
			n, ok := names[*m.StudentClassID]
			if !ok {
				n = h.Service.ClassName(ctx, m)
				names[*m.StudentClassID] = n
			}
			cName = n
		}
		out = append(out, dto.FromModel(m, cName))
	}
	return helper.SuccessList(c, len(out), out)
}

// GET /api/students/:id
func (h *StudentController) GetStudent(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	m, err := h.Service.Get(c.UserContext(), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.Success(c, "Detail siswa", dto.FromModel(m, h.Service.ClassName(c.UserContext(), m)))
}

// PATCH /api/students/:id
func (h *StudentController) PatchStudent(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.StudentPatchReq
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
	return helper.Success(c, "Siswa berhasil diperbarui", dto.FromModel(m, h.Service.ClassName(c.UserContext(), m)))
}

// DELETE /api/students/:id
func (h *StudentController) DeleteStudent(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := h.Service.Delete(c.UserContext(), id); err != nil {
		return helper.FromError(c, err)
	}
	return helper.Success(c, "Siswa berhasil dihapus", fiber.Map{"id": id})
}
