// internals/route/details/finance_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"

	partnerController "schoolmanagement_backend/internals/features/contacts/partners/controller"
	partnerRoutes "schoolmanagement_backend/internals/features/contacts/partners/route"
	partnerService "schoolmanagement_backend/internals/features/contacts/partners/service"
	invoiceController "schoolmanagement_backend/internals/features/finance/invoices/controller"
	invoiceRoutes "schoolmanagement_backend/internals/features/finance/invoices/route"
	invoiceService "schoolmanagement_backend/internals/features/finance/invoices/service"
	paymentService "schoolmanagement_backend/internals/features/finance/payments/service"
	productController "schoolmanagement_backend/internals/features/finance/products/controller"
	productRoutes "schoolmanagement_backend/internals/features/finance/products/route"
	productService "schoolmanagement_backend/internals/features/finance/products/service"
)

/* ===================== FINANCE ===================== */

func FinanceRoutes(
	api fiber.Router,
	partners *partnerService.PartnerService,
	products *productService.ProductService,
	invoices *invoiceService.InvoiceService,
	billing *invoiceService.BillingService,
	payments *paymentService.PaymentService,
) {
	partnerRoutes.PartnerRoutes(api, partnerController.NewPartnerController(partners))
	productRoutes.ProductRoutes(api, productController.NewProductController(products))
	invoiceRoutes.InvoiceRoutes(api, invoiceController.NewInvoiceController(invoices, billing, payments))
}
