// Package payments implements the payment collaborator. The pricing engine
// never reaches in here; a checkout is an explicit follow-up action on an
// already accepted quote.
package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/payment"
	"go.uber.org/zap"

	"github.com/visionify/partner-api/internal/domain"
)

var ErrMissingAccessToken = errors.New("missing payment gateway access token")

// Gateway creates payments from accepted quotes
type Gateway struct {
	client payment.Client
	logger *zap.Logger
}

// NewGateway creates a Mercado Pago backed payment gateway
func NewGateway(accessToken string, logger *zap.Logger) (*Gateway, error) {
	if accessToken == "" {
		return nil, ErrMissingAccessToken
	}

	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to configure payment sdk: %w", err)
	}

	return &Gateway{
		client: payment.NewClient(cfg),
		logger: logger,
	}, nil
}

// CheckoutResult captures what the provider returned for a created payment
type CheckoutResult struct {
	Reference string
	Status    string
}

// CreateCheckout charges the quote's total contract value. The quote id
// travels as external_reference so provider events reconcile back to it.
func (g *Gateway) CreateCheckout(ctx context.Context, quote *domain.Quote, payerEmail string) (*CheckoutResult, error) {
	payload := map[string]interface{}{
		"transaction_amount": quote.TotalContractValue,
		"description":        fmt.Sprintf("Quote %s - %s", quote.ID, quote.ClientCompany),
		"external_reference": quote.ID.String(),
	}
	if payerEmail != "" {
		payload["payer"] = map[string]interface{}{"email": payerEmail}
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	var req payment.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("failed to build payment request: %w", err)
	}

	resp, err := g.client.Create(ctx, req)
	if err != nil {
		g.logger.Error("Payment gateway create failed",
			zap.String("quote_id", quote.ID.String()),
			zap.Error(err),
		)
		return nil, err
	}

	reference := fmt.Sprintf("%d", resp.ID)
	g.logger.Info("Payment created",
		zap.String("quote_id", quote.ID.String()),
		zap.String("provider_payment_id", reference),
		zap.String("provider_status", resp.Status),
	)

	return &CheckoutResult{
		Reference: reference,
		Status:    resp.Status,
	}, nil
}
