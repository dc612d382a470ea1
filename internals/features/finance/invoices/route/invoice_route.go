package route

import (
	"github.com/gofiber/fiber/v2"

	"schoolmanagement_backend/internals/constants"
	"schoolmanagement_backend/internals/features/finance/invoices/controller"
	"schoolmanagement_backend/internals/middlewares"
	"schoolmanagement_backend/internals/middlewares/auth"
)

// NotificationPath di-skip oleh middleware auth (dipanggil server Midtrans).
const NotificationPath = "/api/invoices/notification"

func InvoiceRoutes(api fiber.Router, h *controller.InvoiceController) {
	g := api.Group("/invoices")
	g.Post("/notification", h.PaymentNotification)
	g.Get("/", h.ListInvoices)
	g.Get("/:id", h.GetInvoice)
	g.Post("/:id/payment-token", h.CreatePaymentToken)

	api.Post("/billing/run",
		auth.OnlyRoles("billing", constants.FinanceRoles...),
		middlewares.BillingRunRateLimiter(),
		h.RunBilling,
	)
}
