package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolmanagement_backend/internals/features/school/teachers/controller"
)

func TeacherRoutes(api fiber.Router, h *controller.TeacherController) {
	g := api.Group("/teachers")
	g.Get("/", h.ListTeachers)
	g.Post("/", h.CreateTeacher)
	g.Get("/:id", h.GetTeacher)
	g.Patch("/:id", h.PatchTeacher)
	g.Delete("/:id", h.DeleteTeacher)
	g.Post("/:id/toggle-students", h.ToggleStudents)
}
