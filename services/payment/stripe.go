// Package payment wraps Stripe PaymentIntent creation behind a small client
// so handlers never touch the SDK's package-level state.
package payment

import (
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

type Client struct {
	api *client.API
}

func NewClient(secretKey string) *Client {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Client{api: api}
}

// Intent is the subset of a PaymentIntent the frontend needs.
type Intent struct {
	ID           string
	ClientSecret string
}

// CreateIntent creates a card PaymentIntent for the given amount in dollars.
// Stripe takes amounts in the smallest currency unit.
func (c *Client) CreateIntent(amount float64, metadata map[string]string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(math.Round(amount * 100))),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	for key, value := range metadata {
		params.AddMetadata(key, value)
	}

	intent, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("creating payment intent: %w", err)
	}
	return &Intent{ID: intent.ID, ClientSecret: intent.ClientSecret}, nil
}
