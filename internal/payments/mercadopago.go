package payments

import (
	"context"
	"fmt"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/preference"
)

// MercadoPagoGateway implements Gateway on top of the Mercado Pago
// checkout-pro flow: a preference per appointment, payment lookups on
// webhook callbacks.
type MercadoPagoGateway struct {
	preferences preference.Client
	payments    payment.Client

	notificationURL string
	backURL         string
}

func NewMercadoPagoGateway(accessToken, publicBaseURL string) (*MercadoPagoGateway, error) {
	cfg, err := mpconfig.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}

	return &MercadoPagoGateway{
		preferences:     preference.NewClient(cfg),
		payments:        payment.NewClient(cfg),
		notificationURL: publicBaseURL + "/api/webhooks/payments",
		backURL:         publicBaseURL + "/checkout/result",
	}, nil
}

func (g *MercadoPagoGateway) CreateCheckout(
	ctx context.Context,
	in CheckoutInput,
) (*CheckoutSession, error) {

	req := preference.Request{
		Items: []preference.ItemRequest{
			{
				Title:     in.Title,
				Quantity:  1,
				UnitPrice: in.Amount,
			},
		},
		ExternalReference: in.ExternalReference,
		NotificationURL:   g.notificationURL,
		BackURLs: &preference.BackURLsRequest{
			Success: g.backURL,
			Failure: g.backURL,
			Pending: g.backURL,
		},
	}
	if in.PayerEmail != "" {
		req.Payer = &preference.PayerRequest{Email: in.PayerEmail}
	}

	resource, err := g.preferences.Create(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create preference: %w", err)
	}

	return &CheckoutSession{
		PreferenceID: resource.ID,
		RedirectURL:  resource.InitPoint,
	}, nil
}

func (g *MercadoPagoGateway) GetPayment(
	ctx context.Context,
	id int64,
) (*PaymentInfo, error) {

	resource, err := g.payments.Get(ctx, int(id))
	if err != nil {
		return nil, fmt.Errorf("get payment %d: %w", id, err)
	}

	return &PaymentInfo{
		ID:                int64(resource.ID),
		Status:            resource.Status,
		ExternalReference: resource.ExternalReference,
		Amount:            resource.TransactionAmount,
	}, nil
}

var _ Gateway = (*MercadoPagoGateway)(nil)
