package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmacy-backend/internal/client"
	apperr "pharmacy-backend/internal/errors"
	"pharmacy-backend/internal/model"
)

func seedCart(t *testing.T, f *paymentFixture, userID uint) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, f.productRepo.Create(ctx, &model.Product{
		ID: 1, Name: "Paracetamol 500mg", Category: "Pain relief", Price: 45.00, Stock: 10,
	}))
	require.NoError(t, f.cartRepo.AddItem(ctx, &model.CartItem{
		UserID: userID, ProductID: 1, Quantity: 2,
	}))
}

func TestCheckoutCart_SnapshotsAndClearsCart(t *testing.T) {
	f := newPaymentFixture(t)
	f.paypal.createResp = &client.CreateOrderResponse{OrderID: "PAY-1", Status: "CREATED", ApproveURL: "https://gateway/approve"}
	ctx := context.Background()

	seedCart(t, f, 42)

	result, err := f.svc.CheckoutCart(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 90.00, result.Order.Total)

	// cart is emptied once the order exists
	items, err := f.cartRepo.List(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, items)

	// stock is reserved
	product, err := f.productRepo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int32(8), product.Stock)
}

func TestCheckoutCart_EmptyCartRejected(t *testing.T) {
	f := newPaymentFixture(t)

	_, err := f.svc.CheckoutCart(context.Background(), 42)
	requireValidation(t, err)
	assert.Zero(t, f.paypal.createCalls)
}

func TestCheckoutCart_GatewayFailureKeepsCart(t *testing.T) {
	f := newPaymentFixture(t)
	f.paypal.createErr = apperr.Wrap(apperr.ErrTransport, "gateway down")
	ctx := context.Background()

	seedCart(t, f, 42)

	_, err := f.svc.CheckoutCart(ctx, 42)
	require.Error(t, err)

	items, err := f.cartRepo.List(ctx, 42)
	require.NoError(t, err)
	assert.Len(t, items, 1, "a failed checkout must not consume the cart")
}

func TestCheckoutCartWithCard_ChargesSnapshot(t *testing.T) {
	f := newPaymentFixture(t)
	f.braintree.txID = "bt-1"
	ctx := context.Background()

	seedCart(t, f, 9)

	order, err := f.svc.CheckoutCartWithCard(ctx, 9, "vault-token")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, order.Status)
	assert.Equal(t, 90.00, order.Total)

	items, err := f.cartRepo.List(ctx, 9)
	require.NoError(t, err)
	assert.Empty(t, items)
}
