package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolmanagement_backend/internals/features/contacts/partners/controller"
)

func PartnerRoutes(api fiber.Router, h *controller.PartnerController) {
	g := api.Group("/partners")
	g.Get("/", h.ListPartners)
	g.Post("/", h.CreatePartner)
}
