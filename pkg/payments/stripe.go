package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
)

// StripeProvider implements Provider with stripe-go.
type StripeProvider struct {
	api *client.API
}

// NewStripe builds a provider with its own HTTP client. An empty key returns ErrNotConfigured.
func NewStripe(secretKey string, timeout time.Duration) (*StripeProvider, error) {
	if strings.TrimSpace(secretKey) == "" {
		return nil, ErrNotConfigured
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	api := &client.API{}
	api.Init(secretKey, stripe.NewBackends(&http.Client{Timeout: timeout}))
	return &StripeProvider{api: api}, nil
}

func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
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
			Quantity: stripe.Int64(1),
		}},
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			ApplicationFeeAmount: stripe.Int64(req.ApplicationFee),
			TransferData: &stripe.CheckoutSessionPaymentIntentDataTransferDataParams{
				Destination: stripe.String(req.Destination),
			},
		},
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	params.Context = ctx

	sess, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, errors.Wrap(err, "create checkout session")
	}
	return toCheckoutSession(sess), nil
}

func (p *StripeProvider) GetCheckoutSession(ctx context.Context, id string) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := p.api.CheckoutSessions.Get(id, params)
	if err != nil {
		return nil, errors.Wrapf(err, "retrieve checkout session %s", id)
	}
	return toCheckoutSession(sess), nil
}

func (p *StripeProvider) CreateAccount(ctx context.Context, email string) (*Account, error) {
	params := &stripe.AccountParams{
		Type: stripe.String(string(stripe.AccountTypeExpress)),
	}
	if email != "" {
		params.Email = stripe.String(email)
	}
	params.Context = ctx

	acct, err := p.api.Accounts.New(params)
	if err != nil {
		return nil, errors.Wrap(err, "create connected account")
	}
	return toAccount(acct), nil
}

func (p *StripeProvider) GetAccount(ctx context.Context, id string) (*Account, error) {
	params := &stripe.AccountParams{}
	params.Context = ctx

	acct, err := p.api.Accounts.GetByID(id, params)
	if err != nil {
		return nil, errors.Wrapf(err, "retrieve account %s", id)
	}
	return toAccount(acct), nil
}

func (p *StripeProvider) CreateAccountLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error) {
	params := &stripe.AccountLinkParams{
		Account:    stripe.String(accountID),
		RefreshURL: stripe.String(refreshURL),
		ReturnURL:  stripe.String(returnURL),
		Type:       stripe.String("account_onboarding"),
	}
	params.Context = ctx

	link, err := p.api.AccountLinks.New(params)
	if err != nil {
		return "", errors.Wrap(err, "create account link")
	}
	return link.URL, nil
}

func (p *StripeProvider) CreateLoginLink(ctx context.Context, accountID string) (string, error) {
	params := &stripe.LoginLinkParams{Account: stripe.String(accountID)}
	params.Context = ctx

	link, err := p.api.LoginLinks.New(params)
	if err != nil {
		return "", errors.Wrap(err, "create login link")
	}
	return link.URL, nil
}

func (p *StripeProvider) GetBalance(ctx context.Context, accountID string) (*Balance, error) {
	params := &stripe.BalanceParams{}
	params.SetStripeAccount(accountID)
	params.Context = ctx

	bal, err := p.api.Balance.Get(params)
	if err != nil {
		return nil, errors.Wrap(err, "retrieve balance")
	}

	return &Balance{
		Available: toAmounts(bal.Available),
		Pending:   toAmounts(bal.Pending),
	}, nil
}

func toCheckoutSession(s *stripe.CheckoutSession) *CheckoutSession {
	raw, _ := json.Marshal(s)
	return &CheckoutSession{
		ID:            s.ID,
		URL:           s.URL,
		PaymentStatus: string(s.PaymentStatus),
		AmountTotal:   s.AmountTotal,
		Currency:      string(s.Currency),
		Raw:           raw,
	}
}

func toAccount(a *stripe.Account) *Account {
	raw, _ := json.Marshal(a)
	return &Account{
		ID:               a.ID,
		Email:            a.Email,
		ChargesEnabled:   a.ChargesEnabled,
		PayoutsEnabled:   a.PayoutsEnabled,
		DetailsSubmitted: a.DetailsSubmitted,
		Raw:              raw,
	}
}

func toAmounts(in []*stripe.Amount) []Amount {
	out := make([]Amount, 0, len(in))
	for _, a := range in {
		if a == nil {
			continue
		}
		out = append(out, Amount{Amount: a.Amount, Currency: string(a.Currency)})
	}
	return out
}
