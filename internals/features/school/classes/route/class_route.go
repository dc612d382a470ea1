package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolmanagement_backend/internals/features/school/classes/controller"
)

func ClassRoutes(api fiber.Router, h *controller.ClassController) {
	g := api.Group("/classes")
	g.Get("/", h.ListClasses)
	g.Post("/", h.CreateClass)
	g.Get("/:id", h.GetClass)
	g.Patch("/:id", h.PatchClass)
	g.Delete("/:id", h.DeleteClass)
}
