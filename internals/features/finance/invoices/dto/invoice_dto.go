package dto

import (
	"time"

	"schoolmanagement_backend/internals/features/finance/invoices/model"
)

type InvoiceLineResponse struct {
	ID          uint   `json:"id"`
	ProductID   *uint  `json:"product_id"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	PriceUnit   int64  `json:"price_unit"`
	Subtotal    int64  `json:"subtotal"`
}

type InvoiceResponse struct {
	ID             uint                  `json:"id"`
	Number         string                `json:"number"`
	MoveType       string                `json:"move_type"`
	PartnerID      *uint                 `json:"partner_id"`
	StudentID      *uint                 `json:"student_id"`
	BillingPeriod  *string               `json:"billing_period"`
	IsTuition      bool                  `json:"is_tuition_invoice"`
	Status         string                `json:"status"`
	AmountTotal    int64                 `json:"amount_total"`
	Date           string                `json:"date"`
	PaidAt         *time.Time            `json:"paid_at"`
	PaymentOrderID *string               `json:"payment_order_id"`
	Lines          []InvoiceLineResponse `json:"lines"`
	CreatedAt      time.Time             `json:"created_at"`
}

func FromModel(m *model.InvoiceModel) InvoiceResponse {
	lines := make([]InvoiceLineResponse, 0, len(m.InvoiceLines))
	for _, l := range m.InvoiceLines {
		lines = append(lines, InvoiceLineResponse{
			ID:          l.InvoiceLineID,
			ProductID:   l.InvoiceLineProductID,
			Description: l.InvoiceLineDesc,
			Quantity:    l.InvoiceLineQuantity,
			PriceUnit:   l.InvoiceLinePriceUnit,
			Subtotal:    l.InvoiceLineSubtotal,
		})
	}
	return InvoiceResponse{
		ID:             m.InvoiceID,
		Number:         m.InvoiceNumber,
		MoveType:       m.InvoiceMoveType,
		PartnerID:      m.InvoicePartnerID,
		StudentID:      m.InvoiceStudentID,
		BillingPeriod:  m.InvoiceBillingPeriod,
		IsTuition:      m.InvoiceIsTuition,
		Status:         string(m.InvoiceStatus),
		AmountTotal:    m.InvoiceAmountTotal,
		Date:           time.Time(m.InvoiceDate).Format("2006-01-02"),
		PaidAt:         m.InvoicePaidAt,
		PaymentOrderID: m.InvoicePaymentOrderID,
		Lines:          lines,
		CreatedAt:      m.InvoiceCreatedAt,
	}
}

func FromModels(list []model.InvoiceModel) []InvoiceResponse {
	out := make([]InvoiceResponse, 0, len(list))
	for i := range list {
		out = append(out, FromModel(&list[i]))
	}
	return out
}
