package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolmanagement_backend/internals/features/finance/products/controller"
)

func ProductRoutes(api fiber.Router, h *controller.ProductController) {
	g := api.Group("/products")
	g.Get("/", h.ListProducts)
	g.Post("/", h.CreateProduct)
	g.Patch("/:id", h.PatchProduct)
}
