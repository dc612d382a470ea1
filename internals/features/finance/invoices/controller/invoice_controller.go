// file: internals/features/finance/invoices/controller/invoice_controller.go
package controller

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"schoolmanagement_backend/internals/features/finance/invoices/dto"
	invoiceService "schoolmanagement_backend/internals/features/finance/invoices/service"
	paymentService "schoolmanagement_backend/internals/features/finance/payments/service"
	helper "schoolmanagement_backend/internals/helpers"
	"schoolmanagement_backend/internals/repositories"
)

type InvoiceController struct {
	Invoices *invoiceService.InvoiceService
	Billing  *invoiceService.BillingService
	Payments *paymentService.PaymentService
}

func NewInvoiceController(
	invoices *invoiceService.InvoiceService,
	billing *invoiceService.BillingService,
	payments *paymentService.PaymentService,
) *InvoiceController {
	return &InvoiceController{Invoices: invoices, Billing: billing, Payments: payments}
}

// GET /api/invoices?student_id=&billing_period=&tuition=
func (h *InvoiceController) ListInvoices(c *fiber.Ctx) error {
	studentID, err := helper.QueryUint(c, "student_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	tuition, err := helper.QueryBool(c, "tuition")
	if err != nil {
		return helper.FromError(c, err)
	}
	f := repositories.InvoiceFilter{StudentID: studentID, IsTuition: tuition}
	if p := strings.TrimSpace(c.Query("billing_period")); p != "" {
		f.BillingPeriod = &p
	}

	list, err := h.Invoices.List(c.UserContext(), f)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.SuccessList(c, len(list), dto.FromModels(list))
}

// GET /api/invoices/:id
func (h *InvoiceController) GetInvoice(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	m, err := h.Invoices.Get(c.UserContext(), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.Success(c, "Detail invoice", dto.FromModel(m))
}

// POST /api/invoices/:id/payment-token
func (h *InvoiceController) CreatePaymentToken(c *fiber.Ctx) error {
	id, err := helper.ParseIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	res, err := h.Payments.CreateToken(c.UserContext(), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.Success(c, "Token pembayaran dibuat", res)
}

// POST /api/invoices/notification (webhook Midtrans, tanpa JWT)
func (h *InvoiceController) PaymentNotification(c *fiber.Ctx) error {
	var notif paymentService.Notification
	if err := c.BodyParser(&notif); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "invalid payload")
	}
	res, err := h.Payments.HandleNotification(c.UserContext(), notif)
	if err != nil {
		return helper.FromError(c, err)
	}
	return c.JSON(res)
}

// RunBillingTimeout sama dengan batas run dari cron.
const RunBillingTimeout = 30 * time.Minute

// POST /api/billing/run
// Tidak ikut deadline request (RequestTimeout 5s); run besar tetap selesai
// walau response sudah lewat WriteTimeout.
func (h *InvoiceController) RunBilling(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(c.UserContext()), RunBillingTimeout)
	defer cancel()

	summary, err := h.Billing.GenerateMonthlyInvoices(ctx)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.Success(c, "Tagihan bulanan selesai diproses", summary)
}
