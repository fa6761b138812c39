// Package payments wraps the external payment provider used for course
// checkout and instructor payouts.
package payments

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mo-amir99/course-marketplace-go/pkg/types"
)

// ErrNotConfigured is returned when no provider secret key is set.
var ErrNotConfigured = errors.New("payment provider not configured")

// PaymentStatusPaid is the checkout session status that proves capture.
const PaymentStatusPaid = "paid"

// CheckoutRequest describes a single-item checkout with a platform fee routed to a connected account.
type CheckoutRequest struct {
	ProductName    string
	UnitAmount     int64
	Currency       string
	ApplicationFee int64
	Destination    string
	SuccessURL     string
	CancelURL      string
	CustomerEmail  string
	Metadata       map[string]string
}

// CheckoutSession is the provider's view of a checkout.
type CheckoutSession struct {
	ID            string          `json:"id"`
	URL           string          `json:"url"`
	PaymentStatus string          `json:"paymentStatus"`
	AmountTotal   int64           `json:"amountTotal"`
	Currency      string          `json:"currency"`
	Raw           json.RawMessage `json:"-"`
}

// Paid reports whether the session has been paid.
func (s *CheckoutSession) Paid() bool {
	return s != nil && s.PaymentStatus == PaymentStatusPaid
}

// Account is a connected payout account.
type Account struct {
	ID               string          `json:"id"`
	Email            string          `json:"email"`
	ChargesEnabled   bool            `json:"chargesEnabled"`
	PayoutsEnabled   bool            `json:"payoutsEnabled"`
	DetailsSubmitted bool            `json:"detailsSubmitted"`
	Raw              json.RawMessage `json:"-"`
}

// Amount is a balance entry in minor units.
type Amount struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Balance of a connected account.
type Balance struct {
	Available []Amount `json:"available"`
	Pending   []Amount `json:"pending"`
}

// Provider is the subset of the payment provider API the marketplace needs.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, id string) (*CheckoutSession, error)
	CreateAccount(ctx context.Context, email string) (*Account, error)
	GetAccount(ctx context.Context, id string) (*Account, error)
	CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error)
	CreateLoginLink(ctx context.Context, accountID string) (string, error)
	GetBalance(ctx context.Context, accountID string) (*Balance, error)
}

// Amounts converts a course price into the unit amount and platform fee in minor units.
func Amounts(price types.Money, feePercent int64) (unitAmount, applicationFee int64) {
	return price.MinorUnits(), price.Percent(feePercent).MinorUnits()
}
