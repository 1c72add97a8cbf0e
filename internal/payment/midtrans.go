package payment

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/snap"
)

const midtransCurrency = "idr"

type snapCreator interface {
	CreateTransaction(req *snap.Request) (*snap.Response, *midtrans.Error)
}

// MidtransGateway creates Snap transactions restricted to credit cards.
// The Snap token plays the role of the client secret. Midtrans charges in
// whole rupiah, so the minor-unit amount is divided by 100.
type MidtransGateway struct {
	snap snapCreator
}

// NewMidtransGateway returns a Snap gateway for the sandbox or production
// environment.
func NewMidtransGateway(serverKey string, production bool) *MidtransGateway {
	var c snap.Client
	if production {
		c.New(serverKey, midtrans.Production)
	} else {
		c.New(serverKey, midtrans.Sandbox)
	}
	return &MidtransGateway{snap: &c}
}

func (g *MidtransGateway) CreatePaymentIntent(_ context.Context, amount int64, currency string) (string, error) {
	gross := amount / 100
	if gross <= 0 {
		return "", ErrInvalidAmount
	}
	if currency != midtransCurrency {
		return "", fmt.Errorf("midtrans charges %s only, got %q", midtransCurrency, currency)
	}
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  uuid.NewString(),
			GrossAmt: gross,
		},
		EnabledPayments: []snap.SnapPaymentType{snap.PaymentTypeCreditCard},
		CreditCard:      &snap.CreditCardDetails{Secure: true},
	}
	resp, merr := g.snap.CreateTransaction(req)
	if merr != nil {
		return "", fmt.Errorf("midtrans snap transaction: %w", merr)
	}
	return resp.Token, nil
}
