// Package payment creates card payment intents with an external gateway.
package payment

import (
	"context"
	"errors"
	"fmt"
	"math"

	"sports_academy/internal/config"
)

// ErrInvalidAmount is returned for non-positive amounts.
var ErrInvalidAmount = errors.New("amount must be positive")

// Gateway creates a card-only payment intent and returns the client secret
// the browser uses to confirm the payment.
type Gateway interface {
	CreatePaymentIntent(ctx context.Context, amount int64, currency string) (string, error)
}

// MaxPrice is the largest price in major units accepted for a payment intent.
const MaxPrice = 1_000_000

// MinorUnits converts a price in major units to the integer amount the
// gateways expect (cents for USD).
func MinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}

// NewGateway builds the gateway selected by cfg.PaymentProvider.
func NewGateway(cfg *config.Config) (Gateway, error) {
	switch cfg.PaymentProvider {
	case config.ProviderStripe:
		return NewStripeGateway(cfg.PaymentSecretKey, cfg.PaymentAPIURL), nil
	case config.ProviderMidtrans:
		if cfg.PaymentCurrency != midtransCurrency {
			return nil, fmt.Errorf("midtrans charges %s only, PAYMENT_CURRENCY is %q", midtransCurrency, cfg.PaymentCurrency)
		}
		return NewMidtransGateway(cfg.PaymentSecretKey, cfg.IsProd), nil
	}
	return nil, fmt.Errorf("unsupported payment provider %q", cfg.PaymentProvider)
}
