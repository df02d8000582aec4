package client

import (
	"context"
	"fmt"

	"github.com/braintree-go/braintree-go"
	"github.com/shopspring/decimal"

	"pharmacy-backend/internal/config"
	apperr "pharmacy-backend/internal/errors"
)

type BraintreeClient interface {
	// ChargeOneTime charges a payment token for a specific amount and returns
	// the transaction id. The charge is submitted for settlement immediately.
	ChargeOneTime(ctx context.Context, paymentToken string, amount decimal.Decimal) (string, error)
}

type braintreeClientImpl struct {
	gateway *braintree.Braintree
}

func NewBraintreeClient(cfg *config.Braintree) BraintreeClient {
	env := braintree.Sandbox
	if cfg.Environment == "production" {
		env = braintree.Production
	}

	return &braintreeClientImpl{
		gateway: braintree.New(env, cfg.MerchantID, cfg.PublicKey, cfg.PrivateKey),
	}
}

func (c *braintreeClientImpl) ChargeOneTime(ctx context.Context, paymentToken string, amount decimal.Decimal) (string, error) {
	// braintree wants (unscaled, scale): "50.00" -> NewDecimal(5000, 2)
	cents := amount.Mul(decimal.NewFromInt(100)).IntPart()
	btAmount := braintree.NewDecimal(cents, 2)

	req := &braintree.TransactionRequest{
		Type:               "sale",
		Amount:             btAmount,
		PaymentMethodToken: paymentToken,
		Options: &braintree.TransactionOptions{
			SubmitForSettlement: true,
		},
	}

	tx, err := c.gateway.Transaction().Create(ctx, req)
	if err != nil {
		return "", fmt.Errorf("braintree transaction: %w", err)
	}

	if tx.Status == braintree.TransactionStatusProcessorDeclined {
		return "", apperr.Wrap(apperr.ErrGatewayRequest,
			"card declined by processor: %s", tx.ProcessorResponseText)
	}

	return tx.Id, nil
}
