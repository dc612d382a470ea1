package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	partnerModel "schoolmanagement_backend/internals/features/contacts/partners/model"
	invoiceModel "schoolmanagement_backend/internals/features/finance/invoices/model"
	"schoolmanagement_backend/internals/helpers/apperror"
	"schoolmanagement_backend/internals/helpers/dbtime"
	"schoolmanagement_backend/internals/repositories/memory"
)

const testServerKey = "SB-Mid-server-test"

type fakeGateway struct {
	calls  []SnapInput
	err    error
	onCall func()
}

func (g *fakeGateway) CreateToken(in SnapInput) (string, string, error) {
	if g.onCall != nil {
		g.onCall()
	}
	if g.err != nil {
		return "", "", g.err
	}
	g.calls = append(g.calls, in)
	return "tok-" + in.OrderID, "https://app.sandbox.midtrans.com/snap/v2/vtweb/tok", nil
}

type paymentFixture struct {
	repo    *memory.Repository
	gateway *fakeGateway
	svc     *PaymentService
	invoice *invoiceModel.InvoiceModel
}

func newPaymentFixture(t *testing.T) *paymentFixture {
	t.Helper()
	ctx := context.Background()
	repo := memory.New()

	email := "andi@example.com"
	partner := &partnerModel.PartnerModel{PartnerName: "Pak Andi", PartnerEmail: &email, PartnerIsActive: true}
	require.NoError(t, repo.CreatePartner(ctx, partner))

	pid := partner.PartnerID
	period := "2025-10"
	inv := &invoiceModel.InvoiceModel{
		InvoiceNumber:        "INV/2025-10/ABCDEF12",
		InvoiceMoveType:      invoiceModel.MoveTypeOutInvoice,
		InvoicePartnerID:     &pid,
		InvoiceBillingPeriod: &period,
		InvoiceIsTuition:     true,
		InvoiceStatus:        invoiceModel.InvoiceStatusUnpaid,
		InvoiceDate:          dbtime.ToDate(time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)),
		InvoiceLines: []invoiceModel.InvoiceLineModel{{
			InvoiceLineDesc: "Biaya Sekolah Bulanan 2025-10 - Andi", InvoiceLineQuantity: 1, InvoiceLinePriceUnit: 150000,
		}},
	}
	inv.RecalculateTotal()
	require.NoError(t, repo.CreateInvoice(ctx, inv))

	gw := &fakeGateway{}
	svc := NewPaymentService(repo, gw, testServerKey)
	svc.Now = func() time.Time { return time.Date(2025, 10, 3, 9, 0, 0, 0, time.UTC) }
	return &paymentFixture{repo: repo, gateway: gw, svc: svc, invoice: inv}
}

func (f *paymentFixture) notification(orderID, status string) Notification {
	n := Notification{
		OrderID:           orderID,
		StatusCode:        "200",
		GrossAmount:       "150000.00",
		TransactionStatus: status,
	}
	n.SignatureKey = Signature(n.OrderID, n.StatusCode, n.GrossAmount, testServerKey)
	return n
}

func (f *paymentFixture) reload(t *testing.T) *invoiceModel.InvoiceModel {
	t.Helper()
	inv, err := f.repo.GetInvoice(context.Background(), f.invoice.InvoiceID)
	require.NoError(t, err)
	return inv
}

func TestCreateToken_StoresAndReusesToken(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	first, err := f.svc.CreateToken(ctx, f.invoice.InvoiceID)
	require.NoError(t, err)
	assert.False(t, first.Reused)
	assert.Contains(t, first.OrderID, "INV/2025-10/ABCDEF12-")
	require.Len(t, f.gateway.calls, 1)
	assert.Equal(t, int64(150000), f.gateway.calls[0].GrossAmount)
	assert.Equal(t, "Pak Andi", f.gateway.calls[0].Customer.Name)
	assert.Equal(t, "andi@example.com", f.gateway.calls[0].Customer.Email)

	second, err := f.svc.CreateToken(ctx, f.invoice.InvoiceID)
	require.NoError(t, err)
	assert.True(t, second.Reused)
	assert.Equal(t, first.Token, second.Token)
	assert.Len(t, f.gateway.calls, 1)
}

func TestCreateToken_Errors(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateToken(ctx, 999)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	noGateway := NewPaymentService(f.repo, nil, testServerKey)
	_, err = noGateway.CreateToken(ctx, f.invoice.InvoiceID)
	assert.True(t, apperror.Is(err, apperror.KindUnavailable))

	f.gateway.err = errors.New("midtrans down")
	_, err = f.svc.CreateToken(ctx, f.invoice.InvoiceID)
	assert.True(t, apperror.Is(err, apperror.KindInternal))
	assert.Nil(t, f.reload(t).InvoicePaymentToken)
}

func TestHandleNotification_SettlementMarksPaid(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	tok, err := f.svc.CreateToken(ctx, f.invoice.InvoiceID)
	require.NoError(t, err)

	res, err := f.svc.HandleNotification(ctx, f.notification(tok.OrderID, "settlement"))
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Status)
	assert.Equal(t, string(invoiceModel.InvoiceStatusPaid), res.InvoiceStatus)

	inv := f.reload(t)
	assert.Equal(t, invoiceModel.InvoiceStatusPaid, inv.InvoiceStatus)
	require.NotNil(t, inv.InvoicePaidAt)

	// expire setelah lunas tidak mengubah apa pun
	res, err = f.svc.HandleNotification(ctx, f.notification(tok.OrderID, "expire"))
	require.NoError(t, err)
	assert.Equal(t, "ignored", res.Status)
	assert.Equal(t, invoiceModel.InvoiceStatusPaid, f.reload(t).InvoiceStatus)

	_, err = f.svc.CreateToken(ctx, f.invoice.InvoiceID)
	assert.True(t, apperror.Is(err, apperror.KindConflict))
}

func TestHandleNotification_BadSignature(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	tok, err := f.svc.CreateToken(ctx, f.invoice.InvoiceID)
	require.NoError(t, err)

	n := f.notification(tok.OrderID, "settlement")
	n.GrossAmount = "1.00"
	_, err = f.svc.HandleNotification(ctx, n)
	assert.True(t, apperror.Is(err, apperror.KindForbidden))
	assert.Equal(t, invoiceModel.InvoiceStatusUnpaid, f.reload(t).InvoiceStatus)
}

func TestCreateToken_GatewayCalledOutsideTransaction(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	repoFree := false
	f.gateway.onCall = func() {
		done := make(chan struct{})
		go func() {
			_, _ = f.repo.GetInvoice(ctx, f.invoice.InvoiceID)
			close(done)
		}()
		select {
		case <-done:
			repoFree = true
		case <-time.After(time.Second):
		}
	}

	res, err := f.svc.CreateToken(ctx, f.invoice.InvoiceID)
	require.NoError(t, err)
	assert.True(t, repoFree, "repository terkunci selama request ke gateway")
	assert.Equal(t, res.Token, *f.reload(t).InvoicePaymentToken)
}

func TestCreateToken_InvoicePaidDuringGatewayCall(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()

	f.gateway.onCall = func() {
		inv := f.reload(t)
		inv.InvoiceStatus = invoiceModel.InvoiceStatusPaid
		require.NoError(t, f.repo.SaveInvoice(ctx, inv))
	}

	_, err := f.svc.CreateToken(ctx, f.invoice.InvoiceID)
	assert.True(t, apperror.Is(err, apperror.KindConflict))
	assert.Nil(t, f.reload(t).InvoicePaymentToken)
}

func TestHandleNotification_GrossAmountMismatchIgnored(t *testing.T) {
	f := newPaymentFixture(t)
	ctx := context.Background()
	tok, err := f.svc.CreateToken(ctx, f.invoice.InvoiceID)
	require.NoError(t, err)

	n := f.notification(tok.OrderID, "settlement")
	n.GrossAmount = "1000.00"
	n.SignatureKey = Signature(n.OrderID, n.StatusCode, n.GrossAmount, testServerKey)

	res, err := f.svc.HandleNotification(ctx, n)
	require.NoError(t, err)
	assert.Equal(t, "ignored", res.Status)
	assert.Equal(t, "gross amount mismatch", res.Reason)
	assert.Equal(t, invoiceModel.InvoiceStatusUnpaid, f.reload(t).InvoiceStatus)
}

func TestVerifySignature(t *testing.T) {
	n := Notification{OrderID: "order-1", StatusCode: "200", GrossAmount: "10000.00"}
	sig := Signature(n.OrderID, n.StatusCode, n.GrossAmount, "key")

	tests := []struct {
		key  string
		want bool
	}{
		{sig, true},
		{"  " + strings.ToUpper(sig) + " ", true},
		{"", false},
		{sig[:64], false},
		{Signature(n.OrderID, "201", n.GrossAmount, "key"), false},
	}
	for _, tt := range tests {
		n.SignatureKey = tt.key
		assert.Equal(t, tt.want, VerifySignature(n, "key"), tt.key)
	}
}

func TestHandleNotification_UnknownOrderIgnored(t *testing.T) {
	f := newPaymentFixture(t)
	res, err := f.svc.HandleNotification(context.Background(), f.notification("INV/none-1234", "settlement"))
	require.NoError(t, err)
	assert.Equal(t, "ignored", res.Status)
}

func TestMapStatus(t *testing.T) {
	unpaid := invoiceModel.InvoiceStatusUnpaid
	tests := []struct {
		status, fraud string
		cur           invoiceModel.InvoiceStatus
		want          invoiceModel.InvoiceStatus
		changed       bool
	}{
		{"capture", "accept", unpaid, invoiceModel.InvoiceStatusPaid, true},
		{"capture", "", unpaid, invoiceModel.InvoiceStatusPaid, true},
		{"capture", "challenge", unpaid, unpaid, false},
		{"settlement", "", unpaid, invoiceModel.InvoiceStatusPaid, true},
		{"pending", "", unpaid, unpaid, false},
		{"deny", "", unpaid, invoiceModel.InvoiceStatusCanceled, true},
		{"cancel", "", unpaid, invoiceModel.InvoiceStatusCanceled, true},
		{"expire", "", invoiceModel.InvoiceStatusCanceled, invoiceModel.InvoiceStatusCanceled, false},
		{"cancel", "", invoiceModel.InvoiceStatusPaid, invoiceModel.InvoiceStatusPaid, false},
	}
	for _, tt := range tests {
		got, changed := mapStatus(tt.cur, Notification{TransactionStatus: tt.status, FraudStatus: tt.fraud})
		assert.Equal(t, tt.want, got, "%s/%s from %s", tt.status, tt.fraud, tt.cur)
		assert.Equal(t, tt.changed, changed, "%s/%s from %s", tt.status, tt.fraud, tt.cur)
	}
}

func TestSignature_KnownVector(t *testing.T) {
	sig := Signature("order-1", "200", "10000.00", "key")
	assert.Len(t, sig, 128)
	assert.Equal(t, sig, Signature("order-1", "200", "10000.00", "key"))
	assert.NotEqual(t, sig, Signature("order-1", "201", "10000.00", "key"))
}
