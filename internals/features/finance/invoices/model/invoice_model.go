// file: internals/features/finance/invoices/model/invoice_model.go
package model

import (
	"time"

	"gorm.io/datatypes"
)

// =========================================================
// ENUM: status & jenis invoice
// =========================================================

type InvoiceStatus string

const (
	InvoiceStatusUnpaid   InvoiceStatus = "unpaid"
	InvoiceStatusPaid     InvoiceStatus = "paid"
	InvoiceStatusCanceled InvoiceStatus = "canceled"
)

// MoveTypeOutInvoice is an outbound customer invoice.
const MoveTypeOutInvoice = "out_invoice"

// BillingPeriodLayout is the canonical YYYY-MM period format.
const BillingPeriodLayout = "2006-01"

// =========================================================
// MODEL
// =========================================================

// InvoiceModel
//
// Unique tuition key (student, period) hanya berlaku untuk invoice_is_tuition = true;
// partial unique index dibuat di databases.EnsureConstraints.
type InvoiceModel struct {
	InvoiceID     uint   `gorm:"column:invoice_id;primaryKey;autoIncrement" json:"invoice_id"`
	InvoiceNumber string `gorm:"column:invoice_number;type:varchar(60);not null;uniqueIndex:uniq_invoices_number" json:"invoice_number"`

	InvoiceMoveType  string `gorm:"column:invoice_move_type;type:varchar(20);not null" json:"invoice_move_type"`
	InvoicePartnerID *uint  `gorm:"column:invoice_partner_id;index:ix_invoices_partner" json:"invoice_partner_id,omitempty"`

	InvoiceStudentID     *uint   `gorm:"column:invoice_student_id;index:ix_invoices_student_period,priority:1" json:"invoice_student_id,omitempty"`
	InvoiceBillingPeriod *string `gorm:"column:invoice_billing_period;type:varchar(7);index:ix_invoices_student_period,priority:2" json:"invoice_billing_period,omitempty"`
	InvoiceIsTuition     bool    `gorm:"column:invoice_is_tuition;not null" json:"invoice_is_tuition"`

	InvoiceStatus      InvoiceStatus  `gorm:"column:invoice_status;type:varchar(20);not null;index:ix_invoices_status" json:"invoice_status"`
	InvoiceAmountTotal int64          `gorm:"column:invoice_amount_total;not null;check:invoice_amount_total>=0" json:"invoice_amount_total"`
	InvoiceDate        datatypes.Date `gorm:"column:invoice_date;type:date;not null" json:"invoice_date"`
	InvoicePaidAt      *time.Time     `gorm:"column:invoice_paid_at;type:timestamptz" json:"invoice_paid_at,omitempty"`

	// Midtrans Snap
	InvoicePaymentToken   *string `gorm:"column:invoice_payment_token;type:varchar(120)" json:"invoice_payment_token,omitempty"`
	InvoicePaymentOrderID *string `gorm:"column:invoice_payment_order_id;type:varchar(120);index:ix_invoices_payment_order" json:"invoice_payment_order_id,omitempty"`

	InvoiceLines []InvoiceLineModel `gorm:"foreignKey:InvoiceLineInvoiceID;references:InvoiceID;constraint:OnDelete:CASCADE" json:"invoice_lines,omitempty"`

	InvoiceCreatedAt time.Time `gorm:"column:invoice_created_at;type:timestamptz;not null;autoCreateTime" json:"invoice_created_at"`
	InvoiceUpdatedAt time.Time `gorm:"column:invoice_updated_at;type:timestamptz;not null;autoUpdateTime" json:"invoice_updated_at"`
}

func (InvoiceModel) TableName() string { return "invoices" }

type InvoiceLineModel struct {
	InvoiceLineID        uint   `gorm:"column:invoice_line_id;primaryKey;autoIncrement" json:"invoice_line_id"`
	InvoiceLineInvoiceID uint   `gorm:"column:invoice_line_invoice_id;not null;index:ix_invoice_lines_invoice" json:"invoice_line_invoice_id"`
	InvoiceLineProductID *uint  `gorm:"column:invoice_line_product_id" json:"invoice_line_product_id,omitempty"`
	InvoiceLineDesc      string `gorm:"column:invoice_line_description;type:text;not null" json:"invoice_line_description"`
	InvoiceLineQuantity  int    `gorm:"column:invoice_line_quantity;not null;check:invoice_line_quantity>0" json:"invoice_line_quantity"`
	InvoiceLinePriceUnit int64  `gorm:"column:invoice_line_price_unit;not null" json:"invoice_line_price_unit"`
	InvoiceLineSubtotal  int64  `gorm:"column:invoice_line_subtotal;not null" json:"invoice_line_subtotal"`
}

func (InvoiceLineModel) TableName() string { return "invoice_lines" }

// RecalculateTotal sets each line subtotal and the invoice total.
func (m *InvoiceModel) RecalculateTotal() {
	var total int64
	for i := range m.InvoiceLines {
		l := &m.InvoiceLines[i]
		l.InvoiceLineSubtotal = int64(l.InvoiceLineQuantity) * l.InvoiceLinePriceUnit
		total += l.InvoiceLineSubtotal
	}
	m.InvoiceAmountTotal = total
}

func (m InvoiceModel) IsOpen() bool {
	return m.InvoiceStatus == InvoiceStatusUnpaid
}
