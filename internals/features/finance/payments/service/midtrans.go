package service

import (
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

/* =========================================================
   Gateway abstraction
========================================================= */

// CustomerInput: data customer yang dikirim ke Snap.
type CustomerInput struct {
	Name  string
	Email string
	Phone string
}

type SnapInput struct {
	OrderID     string
	GrossAmount int64
	ItemName    string
	Customer    CustomerInput
}

// Gateway issues payment tokens. Production uses Midtrans Snap.
type Gateway interface {
	CreateToken(in SnapInput) (token string, redirectURL string, err error)
}

/* =========================================================
   Midtrans Snap
========================================================= */

type MidtransGateway struct {
	client snap.Client
}

// NewMidtransGateway: useProduction=true untuk Production, false untuk Sandbox.
func NewMidtransGateway(serverKey string, useProduction bool) *MidtransGateway {
	g := &MidtransGateway{}
	if useProduction {
		g.client.New(serverKey, midtrans.Production)
	} else {
		g.client.New(serverKey, midtrans.Sandbox)
	}
	return g
}

func (g *MidtransGateway) CreateToken(in SnapInput) (string, string, error) {
	if in.GrossAmount <= 0 {
		return "", "", errors.New("invalid gross amount")
	}
	if strings.TrimSpace(in.OrderID) == "" {
		return "", "", errors.New("order id is required")
	}

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  in.OrderID,
			GrossAmt: in.GrossAmount,
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: in.Customer.Name,
			Email: in.Customer.Email,
			Phone: in.Customer.Phone,
		},
		Items: &[]midtrans.ItemDetails{{
			ID:       truncate(in.OrderID, 50),
			Price:    in.GrossAmount,
			Qty:      1,
			Name:     truncate(in.ItemName, 50),
			Category: "SPP",
		}},
	}

	resp, mErr := g.client.CreateTransaction(req)
	if mErr != nil {
		return "", "", mErr
	}
	return resp.Token, resp.RedirectURL, nil
}

/* =========================================================
   Utils
========================================================= */

// Signature: SHA512(order_id + status_code + gross_amount + ServerKey)
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	h := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(h[:])
}

// VerifySignature membandingkan signature_key secara constant-time.
func VerifySignature(n Notification, serverKey string) bool {
	got := strings.ToLower(strings.TrimSpace(n.SignatureKey))
	if got == "" {
		return false
	}
	want := Signature(n.OrderID, n.StatusCode, n.GrossAmount, serverKey)
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
