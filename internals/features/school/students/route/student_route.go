package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolmanagement_backend/internals/features/school/students/controller"
)

func StudentRoutes(api fiber.Router, h *controller.StudentController) {
	g := api.Group("/students")
	g.Get("/", h.ListStudents)
	g.Post("/", h.CreateStudent)
	g.Get("/:id", h.GetStudent)
	g.Patch("/:id", h.PatchStudent)
	g.Delete("/:id", h.DeleteStudent)
}
