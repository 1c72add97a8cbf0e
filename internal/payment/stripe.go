package payment

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeGateway creates Stripe PaymentIntents.
type StripeGateway struct {
	api *client.API
}

// NewStripeGateway returns a gateway for the given secret key. An empty
// apiURL uses the default Stripe endpoint. Network retries are always off.
func NewStripeGateway(secretKey, apiURL string) *StripeGateway {
	api := &client.API{}
	api.Init(secretKey, &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, backendConfig(apiURL)),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, backendConfig("")),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, backendConfig("")),
	})
	return &StripeGateway{api: api}
}

func backendConfig(url string) *stripe.BackendConfig {
	cfg := &stripe.BackendConfig{MaxNetworkRetries: stripe.Int64(0)}
	if url != "" {
		cfg.URL = stripe.String(url)
	}
	return cfg
}

func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, amount int64, currency string) (string, error) {
	if amount <= 0 {
		return "", ErrInvalidAmount
	}
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx
	intent, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe payment intent: %w", err)
	}
	return intent.ClientSecret, nil
}
