package service

import (
	"context"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	invoiceModel "schoolmanagement_backend/internals/features/finance/invoices/model"
	"schoolmanagement_backend/internals/helpers/apperror"
	"schoolmanagement_backend/internals/repositories"
)

// Notification adalah payload webhook Midtrans (field lain aman diabaikan).
type Notification struct {
	TransactionTime   string `json:"transaction_time"`
	TransactionStatus string `json:"transaction_status"` // capture, settlement, pending, deny, cancel, expire, ...
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
	TransactionID     string `json:"transaction_id"`
}

type TokenResult struct {
	InvoiceID   uint   `json:"invoice_id"`
	OrderID     string `json:"order_id"`
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url,omitempty"`
	Reused      bool   `json:"reused"`
}

type NotificationResult struct {
	Status        string `json:"status"` // ok | ignored
	InvoiceID     uint   `json:"invoice_id,omitempty"`
	InvoiceStatus string `json:"invoice_status,omitempty"`
	Reason        string `json:"reason,omitempty"`
}

type PaymentService struct {
	Repo      repositories.Repository
	Gateway   Gateway // nil → pembayaran online nonaktif
	ServerKey string
	Now       func() time.Time
}

func NewPaymentService(repo repositories.Repository, gateway Gateway, serverKey string) *PaymentService {
	return &PaymentService{Repo: repo, Gateway: gateway, ServerKey: serverKey, Now: time.Now}
}

// NewOrderID → "<invoice_number>-<uuid8>"
func NewOrderID(invoiceNumber string) string {
	return invoiceNumber + "-" + uuid.NewString()[:8]
}

func loadOpenInvoice(ctx context.Context, repo repositories.Repository, invoiceID uint) (*invoiceModel.InvoiceModel, error) {
	inv, err := repo.GetInvoice(ctx, invoiceID)
	if err != nil {
		if repositories.IsNotFound(err) {
			return nil, apperror.NotFound("Invoice ID tidak ditemukan")
		}
		return nil, apperror.Internal(err)
	}
	if !inv.IsOpen() {
		return nil, apperror.Conflict("Invoice %s berstatus %s", inv.InvoiceNumber, inv.InvoiceStatus)
	}
	return inv, nil
}

func reusedToken(inv *invoiceModel.InvoiceModel) *TokenResult {
	if inv.InvoicePaymentToken == nil || inv.InvoicePaymentOrderID == nil {
		return nil
	}
	return &TokenResult{
		InvoiceID: inv.InvoiceID,
		OrderID:   *inv.InvoicePaymentOrderID,
		Token:     *inv.InvoicePaymentToken,
		Reused:    true,
	}
}

// CreateToken issues (or reuses) a Snap token for an unpaid invoice.
// Request ke Midtrans dilakukan di luar transaksi; hasilnya disimpan
// dalam transaksi pendek yang mengecek ulang status invoice.
func (s *PaymentService) CreateToken(ctx context.Context, invoiceID uint) (*TokenResult, error) {
	if s.Gateway == nil {
		return nil, apperror.Unavailable("Pembayaran online belum dikonfigurasi")
	}

	inv, err := loadOpenInvoice(ctx, s.Repo, invoiceID)
	if err != nil {
		return nil, err
	}
	if res := reusedToken(inv); res != nil {
		return res, nil
	}

	cust := CustomerInput{Name: "Wali Murid"}
	if inv.InvoicePartnerID != nil {
		if p, err := s.Repo.GetPartner(ctx, *inv.InvoicePartnerID); err == nil {
			cust.Name = p.PartnerName
			if p.PartnerEmail != nil {
				cust.Email = *p.PartnerEmail
			}
			if p.PartnerPhone != nil {
				cust.Phone = *p.PartnerPhone
			}
		}
	}

	orderID := NewOrderID(inv.InvoiceNumber)
	token, redirect, err := s.Gateway.CreateToken(SnapInput{
		OrderID:     orderID,
		GrossAmount: inv.InvoiceAmountTotal,
		ItemName:    itemName(inv),
		Customer:    cust,
	})
	if err != nil {
		return nil, apperror.Internal(err)
	}

	var out *TokenResult
	err = s.Repo.Transaction(ctx, func(tx repositories.Repository) error {
		cur, err := loadOpenInvoice(ctx, tx, invoiceID)
		if err != nil {
			return err
		}
		// request lain sudah menyimpan token duluan
		if res := reusedToken(cur); res != nil {
			out = res
			return nil
		}
		cur.InvoicePaymentToken = &token
		cur.InvoicePaymentOrderID = &orderID
		if err := tx.SaveInvoice(ctx, cur); err != nil {
			return apperror.Internal(err)
		}
		out = &TokenResult{InvoiceID: cur.InvoiceID, OrderID: orderID, Token: token, RedirectURL: redirect}
		return nil
	})
	return out, err
}

func itemName(inv *invoiceModel.InvoiceModel) string {
	if len(inv.InvoiceLines) > 0 && inv.InvoiceLines[0].InvoiceLineDesc != "" {
		return inv.InvoiceLines[0].InvoiceLineDesc
	}
	return inv.InvoiceNumber
}

// HandleNotification verifies the signature and maps transaction_status
// to the invoice status. Order yang tidak dikenal dibalas "ignored"
// supaya Midtrans tidak retry terus.
func (s *PaymentService) HandleNotification(ctx context.Context, n Notification) (*NotificationResult, error) {
	if s.ServerKey == "" || !VerifySignature(n, s.ServerKey) {
		return nil, apperror.Forbidden("invalid signature")
	}

	logger := log.WithFields(log.Fields{
		"order_id":           n.OrderID,
		"transaction_status": n.TransactionStatus,
	})

	var out *NotificationResult
	err := s.Repo.Transaction(ctx, func(tx repositories.Repository) error {
		inv, err := tx.FindInvoiceByPaymentOrder(ctx, n.OrderID)
		if err != nil {
			if repositories.IsNotFound(err) {
				out = &NotificationResult{Status: "ignored", Reason: "invoice not found"}
				return nil
			}
			return apperror.Internal(err)
		}

		if !sameAmount(n.GrossAmount, inv.InvoiceAmountTotal) {
			logger.WithField("invoice_total", inv.InvoiceAmountTotal).Warn("gross_amount tidak cocok dengan invoice")
			out = &NotificationResult{Status: "ignored", InvoiceID: inv.InvoiceID, InvoiceStatus: string(inv.InvoiceStatus), Reason: "gross amount mismatch"}
			return nil
		}

		next, changed := mapStatus(inv.InvoiceStatus, n)
		if !changed {
			out = &NotificationResult{Status: "ignored", InvoiceID: inv.InvoiceID, InvoiceStatus: string(inv.InvoiceStatus), Reason: "no status change"}
			return nil
		}
		inv.InvoiceStatus = next
		if next == invoiceModel.InvoiceStatusPaid {
			now := s.Now()
			inv.InvoicePaidAt = &now
		}
		if err := tx.SaveInvoice(ctx, inv); err != nil {
			return apperror.Internal(err)
		}
		out = &NotificationResult{Status: "ok", InvoiceID: inv.InvoiceID, InvoiceStatus: string(next)}
		return nil
	})
	if err != nil {
		logger.WithError(err).Error("payment notification failed")
		return nil, err
	}
	logger.WithField("result", out.Status).Info("payment notification processed")
	return out, nil
}

// sameAmount: Midtrans mengirim gross_amount sebagai "150000.00".
func sameAmount(gross string, total int64) bool {
	f, err := strconv.ParseFloat(strings.TrimSpace(gross), 64)
	if err != nil {
		return false
	}
	return int64(math.Round(f)) == total
}

// mapStatus: invoice yang sudah paid tidak pernah dibatalkan oleh notifikasi.
func mapStatus(cur invoiceModel.InvoiceStatus, n Notification) (invoiceModel.InvoiceStatus, bool) {
	if cur == invoiceModel.InvoiceStatusPaid {
		return cur, false
	}
	switch strings.ToLower(n.TransactionStatus) {
	case "capture":
		// kartu kredit: hanya fraud=accept (atau kosong) yang dianggap lunas
		fraud := strings.ToLower(n.FraudStatus)
		if fraud == "" || fraud == "accept" {
			return invoiceModel.InvoiceStatusPaid, true
		}
		return cur, false
	case "settlement":
		return invoiceModel.InvoiceStatusPaid, true
	case "cancel", "deny", "expire":
		if cur == invoiceModel.InvoiceStatusCanceled {
			return cur, false
		}
		return invoiceModel.InvoiceStatusCanceled, true
	}
	return cur, false
}
