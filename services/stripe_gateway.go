package services

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"

	"github.com/cppla/dollarblog/utils"
)

// StripeGateway opens Stripe Checkout sessions in payment mode.
type StripeGateway struct {
	client session.Client
	hasKey bool
}

// NewStripeGateway uses secretKey for every request. An empty key makes every
// call fail with a PAYMENT error.
func NewStripeGateway(secretKey string) *StripeGateway {
	return &StripeGateway{
		client: session.Client{B: stripe.GetBackend(stripe.APIBackend), Key: secretKey},
		hasKey: secretKey != "",
	}
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (CheckoutSession, error) {
	if !g.hasKey {
		return CheckoutSession{}, utils.NewAppError(utils.ErrPayment, "payment processor is not configured", nil)
	}
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(req.Currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(req.ProductName),
				},
				UnitAmount: stripe.Int64(req.UnitAmount),
			},
			Quantity: stripe.Int64(req.Quantity),
		}},
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	params.Context = ctx
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	s, err := g.client.New(params)
	if err != nil {
		msg := err.Error()
		var se *stripe.Error
		if errors.As(err, &se) && se.Msg != "" {
			msg = se.Msg
		}
		return CheckoutSession{}, utils.NewAppError(utils.ErrPayment, msg, err)
	}
	return CheckoutSession{ID: s.ID, URL: s.URL, AmountTotal: s.AmountTotal}, nil
}
