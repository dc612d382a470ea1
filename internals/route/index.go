// file: internals/route/index.go
package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"schoolmanagement_backend/internals/configs"
	partnerService "schoolmanagement_backend/internals/features/contacts/partners/service"
	invoiceRoute "schoolmanagement_backend/internals/features/finance/invoices/route"
	invoiceService "schoolmanagement_backend/internals/features/finance/invoices/service"
	paymentService "schoolmanagement_backend/internals/features/finance/payments/service"
	productService "schoolmanagement_backend/internals/features/finance/products/service"
	classService "schoolmanagement_backend/internals/features/school/classes/service"
	studentService "schoolmanagement_backend/internals/features/school/students/service"
	teacherService "schoolmanagement_backend/internals/features/school/teachers/service"
	"schoolmanagement_backend/internals/middlewares/auth"
	"schoolmanagement_backend/internals/repositories"
	routeDetails "schoolmanagement_backend/internals/route/details"
)

var startTime time.Time

// Services bundles every feature service built on one repository.
type Services struct {
	Repo     repositories.Repository
	Teachers *teacherService.TeacherService
	Roster   *teacherService.RosterService
	Classes  *classService.ClassService
	Students *studentService.StudentService
	Partners *partnerService.PartnerService
	Products *productService.ProductService
	Invoices *invoiceService.InvoiceService
	Billing  *invoiceService.BillingService
	Payments *paymentService.PaymentService
}

// NewServices: gateway boleh nil (MIDTRANS_SERVER_KEY kosong).
func NewServices(repo repositories.Repository, cfg *configs.Config, gateway paymentService.Gateway) *Services {
	return &Services{
		Repo:     repo,
		Teachers: teacherService.NewTeacherService(repo),
		Roster:   teacherService.NewRosterService(repo),
		Classes:  classService.NewClassService(repo),
		Students: studentService.NewStudentService(repo, classService.CapacityPolicyFor(cfg.ClassCapacityEnforced), cfg.Timezone),
		Partners: partnerService.NewPartnerService(repo),
		Products: productService.NewProductService(repo),
		Invoices: invoiceService.NewInvoiceService(repo),
		Billing:  invoiceService.NewBillingService(repo, cfg.TuitionProductName, cfg.Timezone),
		Payments: paymentService.NewPaymentService(repo, gateway, cfg.MidtransServerKey),
	}
}

func SetupRoutes(app *fiber.App, svc *Services, cfg *configs.Config) {
	startTime = time.Now()

	log.Info("[INFO] Setting up BaseRoutes...")
	BaseRoutes(app, svc.Repo)

	// /api → JWT (kecuali webhook Midtrans)
	log.Info("[INFO] Setting up API group...")
	api := app.Group("/api",
		auth.AuthJWT(auth.AuthJWTOpts{
			Secret:    cfg.JWTSecret,
			Required:  cfg.RequireAuth,
			SkipPaths: []string{invoiceRoute.NotificationPath},
		}),
	)

	log.Info("[INFO] Mounting School routes...")
	routeDetails.SchoolRoutes(api, svc.Teachers, svc.Roster, svc.Classes, svc.Students)

	log.Info("[INFO] Mounting Finance routes...")
	routeDetails.FinanceRoutes(api, svc.Partners, svc.Products, svc.Invoices, svc.Billing, svc.Payments)
}
