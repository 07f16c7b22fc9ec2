package payments

import "context"

const (
	PaymentStatusPaid   = "paid"
	PaymentStatusUnpaid = "unpaid"
)

type LineItem struct {
	Name       string
	Image      string
	UnitAmount int64
	Quantity   int64
}

type SessionParams struct {
	LineItems  []LineItem
	SuccessURL string
	CancelURL  string
	// PercentOff > 0 attaches a provider-side percent-off discount.
	PercentOff int
	Metadata   map[string]string
}

type Address struct {
	Line1      string
	City       string
	State      string
	PostalCode string
	Country    string
}

type Session struct {
	ID            string
	PaymentStatus string
	AmountTotal   int64
	CustomerName  string
	Address       Address
	Metadata      map[string]string
}

// Client is the thin slice of the payment provider the checkout flow needs.
type Client interface {
	CreateSession(ctx context.Context, params SessionParams) (*Session, error)
	RetrieveSession(ctx context.Context, id string) (*Session, error)
}
