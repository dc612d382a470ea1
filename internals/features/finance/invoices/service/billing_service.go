// file: internals/features/finance/invoices/service/billing_service.go
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"schoolmanagement_backend/internals/configs"
	"schoolmanagement_backend/internals/features/finance/invoices/model"
	productModel "schoolmanagement_backend/internals/features/finance/products/model"
	studentModel "schoolmanagement_backend/internals/features/school/students/model"
	"schoolmanagement_backend/internals/helpers/apperror"
	"schoolmanagement_backend/internals/helpers/dbtime"
	"schoolmanagement_backend/internals/metrics"
	"schoolmanagement_backend/internals/repositories"
)

// ErrMissingBillingParty: siswa aktif tanpa partner tidak bisa ditagih.
var ErrMissingBillingParty = errors.New("student has no billing party")

type StudentFailure struct {
	StudentID   uint   `json:"student_id"`
	StudentName string `json:"student_name"`
	Reason      string `json:"reason"`
}

// RunSummary: Processed = Created + Skipped + Failed. Run yang terhenti
// karena ctx punya Canceled=true dan Remaining = siswa yang belum disentuh.
type RunSummary struct {
	Period    string           `json:"period"`
	Processed int              `json:"processed"`
	Created   int              `json:"created"`
	Skipped   int              `json:"skipped"`
	Failed    int              `json:"failed"`
	Canceled  bool             `json:"canceled,omitempty"`
	Remaining int              `json:"remaining,omitempty"`
	Failures  []StudentFailure `json:"failures"`
}

type BillingService struct {
	Repo        repositories.Repository
	ProductName string
	Loc         *time.Location
	Now         dbtime.Clock
}

func NewBillingService(repo repositories.Repository, productName string, loc *time.Location) *BillingService {
	if strings.TrimSpace(productName) == "" {
		productName = configs.DefaultTuitionProductName
	}
	if loc == nil {
		loc = time.UTC
	}
	return &BillingService{Repo: repo, ProductName: productName, Loc: loc, Now: dbtime.SystemClock}
}

type outcome int

const (
	outcomeCreated outcome = iota
	outcomeSkipped
)

// GenerateMonthlyInvoices creates one tuition invoice per active student for
// the current period. Aman dipanggil berulang: (student, period) yang sudah
// punya invoice dilewati. Produk tuition yang hilang menggagalkan seluruh run.
// Kalau ctx selesai di tengah loop, summary parsial dikembalikan bersama
// UnavailableError; invoice yang sudah dibuat tetap tersimpan.
func (s *BillingService) GenerateMonthlyInvoices(ctx context.Context) (RunSummary, error) {
	started := time.Now()
	now := s.Now()
	period := dbtime.Period(now, s.Loc)
	summary := RunSummary{Period: period, Failures: []StudentFailure{}}

	logger := log.WithFields(log.Fields{"job": "monthly_billing", "period": period})

	product, err := s.Repo.FindProductByName(ctx, s.ProductName)
	if err != nil {
		metrics.RecordBillingRun("error", 0, 0, 0, time.Since(started))
		if repositories.IsNotFound(err) {
			logger.Error("tuition product missing, run aborted")
			return summary, apperror.Configuration("Product '%s' tidak ditemukan. Harap buat dulu.", s.ProductName)
		}
		return summary, apperror.Internal(err)
	}

	students, err := s.Repo.ListStudents(ctx, repositories.StudentFilter{IncludeInactive: false})
	if err != nil {
		metrics.RecordBillingRun("error", 0, 0, 0, time.Since(started))
		return summary, apperror.Internal(err)
	}

	invoiceDate := dbtime.ToDate(now.In(s.Loc))
	for i := range students {
		if err := ctx.Err(); err != nil {
			summary.Canceled = true
			summary.Remaining = len(students) - i
			metrics.RecordBillingRun("canceled", summary.Created, summary.Skipped, summary.Failed, time.Since(started))
			logger.WithError(err).WithField("remaining", summary.Remaining).Warn("billing run canceled")
			return summary, apperror.Unavailable(
				"Billing terhenti sebelum selesai: %d siswa belum diproses. Jalankan ulang untuk melanjutkan.",
				summary.Remaining,
			).Wrap(err)
		}
		st := students[i]
		summary.Processed++

		res, err := s.billStudent(ctx, st, product, period, invoiceDate)
		if err != nil {
			summary.Failed++
			summary.Failures = append(summary.Failures, StudentFailure{
				StudentID:   st.StudentID,
				StudentName: st.StudentName,
				Reason:      err.Error(),
			})
			logger.WithFields(log.Fields{"student_id": st.StudentID}).WithError(err).Warn("tuition invoice failed")
			continue
		}
		switch res {
		case outcomeCreated:
			summary.Created++
		case outcomeSkipped:
			summary.Skipped++
		}
	}

	result := "ok"
	if summary.Failed > 0 {
		result = "partial"
	}
	metrics.RecordBillingRun(result, summary.Created, summary.Skipped, summary.Failed, time.Since(started))

	logger.WithFields(log.Fields{
		"processed": summary.Processed,
		"created":   summary.Created,
		"skipped":   summary.Skipped,
		"failed":    summary.Failed,
	}).Info("monthly billing finished")
	return summary, nil
}

// billStudent runs in its own transaction so one failure stays local.
func (s *BillingService) billStudent(
	ctx context.Context,
	st studentModel.StudentModel,
	product *productModel.ProductModel,
	period string,
	date datatypes.Date,
) (outcome, error) {
	var res outcome
	err := s.Repo.Transaction(ctx, func(tx repositories.Repository) error {
		_, err := tx.FindTuitionInvoice(ctx, st.StudentID, period)
		if err == nil {
			res = outcomeSkipped
			return nil
		}
		if !repositories.IsNotFound(err) {
			return err
		}
		if st.StudentPartnerID == nil {
			return ErrMissingBillingParty
		}

		inv := NewTuitionInvoice(st, product, period)
		inv.InvoiceDate = date
		if err := tx.CreateInvoice(ctx, inv); err != nil {
			return err
		}
		res = outcomeCreated
		return nil
	})
	if err != nil && repositories.IsDuplicate(err) {
		// run lain sudah membuat invoice untuk (student, period) ini
		return outcomeSkipped, nil
	}
	return res, err
}

// NewTuitionInvoice builds an unpaid out_invoice with a single tuition line
// priced from the product's current list price.
func NewTuitionInvoice(st studentModel.StudentModel, product *productModel.ProductModel, period string) *model.InvoiceModel {
	studentID := st.StudentID
	p := period
	productID := product.ProductID

	inv := &model.InvoiceModel{
		InvoiceNumber:        NewInvoiceNumber(period),
		InvoiceMoveType:      model.MoveTypeOutInvoice,
		InvoicePartnerID:     st.StudentPartnerID,
		InvoiceStudentID:     &studentID,
		InvoiceBillingPeriod: &p,
		InvoiceIsTuition:     true,
		InvoiceStatus:        model.InvoiceStatusUnpaid,
		InvoiceLines: []model.InvoiceLineModel{{
			InvoiceLineProductID: &productID,
			InvoiceLineDesc:      fmt.Sprintf("%s %s - %s", product.ProductName, period, st.StudentName),
			InvoiceLineQuantity:  1,
			InvoiceLinePriceUnit: product.ProductListPrice,
		}},
	}
	inv.RecalculateTotal()
	return inv
}

// NewInvoiceNumber → INV/2025-10/1A2B3C4D
func NewInvoiceNumber(period string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "INV/" + period + "/" + strings.ToUpper(id[:8])
}
