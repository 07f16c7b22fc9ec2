package payments

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/coupon"
)

type StripeClient struct {
	currency string
}

func NewStripeClient(apiKey, currency string) *StripeClient {
	stripe.Key = apiKey
	return &StripeClient{currency: currency}
}

func (s *StripeClient) CreateSession(ctx context.Context, params SessionParams) (*Session, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(params.LineItems))
	for _, li := range params.LineItems {
		priceData := &stripe.CheckoutSessionLineItemPriceDataParams{
			Currency:   stripe.String(s.currency),
			UnitAmount: stripe.Int64(li.UnitAmount),
			ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
				Name: stripe.String(li.Name),
			},
		}
		if li.Image != "" {
			priceData.ProductData.Images = stripe.StringSlice([]string{li.Image})
		}
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: priceData,
			Quantity:  stripe.Int64(li.Quantity),
		})
	}

	sessionParams := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:         stripe.String(params.SuccessURL),
		CancelURL:          stripe.String(params.CancelURL),
		ShippingAddressCollection: &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice([]string{"IN", "US"}),
		},
		BillingAddressCollection: stripe.String("required"),
	}
	sessionParams.Context = ctx

	if params.PercentOff > 0 {
		c, err := coupon.New(&stripe.CouponParams{
			PercentOff: stripe.Float64(float64(params.PercentOff)),
			Duration:   stripe.String(string(stripe.CouponDurationOnce)),
		})
		if err != nil {
			return nil, fmt.Errorf("stripe: create coupon: %w", err)
		}
		sessionParams.Discounts = []*stripe.CheckoutSessionDiscountParams{
			{Coupon: stripe.String(c.ID)},
		}
	}

	for k, v := range params.Metadata {
		sessionParams.AddMetadata(k, v)
	}

	sess, err := session.New(sessionParams)
	if err != nil {
		return nil, fmt.Errorf("stripe: create session: %w", err)
	}

	return &Session{
		ID:            sess.ID,
		PaymentStatus: string(sess.PaymentStatus),
		AmountTotal:   sess.AmountTotal,
		Metadata:      sess.Metadata,
	}, nil
}

func (s *StripeClient) RetrieveSession(ctx context.Context, id string) (*Session, error) {
	getParams := &stripe.CheckoutSessionParams{}
	getParams.Context = ctx
	getParams.AddExpand("customer_details")

	sess, err := session.Get(id, getParams)
	if err != nil {
		return nil, fmt.Errorf("stripe: retrieve session: %w", err)
	}

	out := &Session{
		ID:            sess.ID,
		PaymentStatus: string(sess.PaymentStatus),
		AmountTotal:   sess.AmountTotal,
		Metadata:      sess.Metadata,
	}
	if cd := sess.CustomerDetails; cd != nil {
		out.CustomerName = cd.Name
		if cd.Address != nil {
			out.Address = Address{
				Line1:      cd.Address.Line1,
				City:       cd.Address.City,
				State:      cd.Address.State,
				PostalCode: cd.Address.PostalCode,
				Country:    cd.Address.Country,
			}
		}
	}
	return out, nil
}
