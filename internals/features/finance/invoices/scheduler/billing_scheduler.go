// file: internals/features/finance/invoices/scheduler/billing_scheduler.go
package scheduler

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	invoiceService "schoolmanagement_backend/internals/features/finance/invoices/service"
)

// Runner is satisfied by *service.BillingService.
type Runner interface {
	GenerateMonthlyInvoices(ctx context.Context) (invoiceService.RunSummary, error)
}

type BillingScheduler struct {
	cron    *cron.Cron
	runner  Runner
	spec    string
	loc     *time.Location
	timeout time.Duration
}

// NewBillingScheduler: spec pakai format cron 5 field, contoh "0 0 1 * *"
// (tanggal 1 jam 00:00 di loc).
func NewBillingScheduler(runner Runner, spec string, loc *time.Location) (*BillingScheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	logger := cron.PrintfLogger(log.StandardLogger())
	c := cron.New(
		cron.WithLocation(loc),
		cron.WithChain(
			cron.Recover(logger),
			cron.SkipIfStillRunning(logger),
		),
	)
	s := &BillingScheduler{cron: c, runner: runner, spec: spec, loc: loc, timeout: 30 * time.Minute}
	if _, err := c.AddFunc(spec, s.Run); err != nil {
		return nil, errors.Wrapf(err, "invalid BILLING_CRON %q", spec)
	}
	return s, nil
}

// Run executes one billing run; error hanya di-log.
func (s *BillingScheduler) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	summary, err := s.runner.GenerateMonthlyInvoices(ctx)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"period":    summary.Period,
			"created":   summary.Created,
			"remaining": summary.Remaining,
		}).Error("[BILLING-CRON] run gagal")
		return
	}
	log.WithFields(log.Fields{
		"period":  summary.Period,
		"created": summary.Created,
		"skipped": summary.Skipped,
		"failed":  summary.Failed,
	}).Info("[BILLING-CRON] run selesai")
}

func (s *BillingScheduler) Start() {
	s.cron.Start()
	log.Infof("[BILLING-CRON] started schedule=%q", s.spec)
}

// Stop waits for a running job to finish or ctx to expire.
func (s *BillingScheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		log.Warn("[BILLING-CRON] stop timeout, job masih berjalan")
	}
}

// Next returns the next scheduled run time.
func (s *BillingScheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	if !entries[0].Next.IsZero() {
		return entries[0].Next
	}
	// belum Start: hitung dari jam sekolah
	return entries[0].Schedule.Next(time.Now().In(s.loc))
}
