package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperr "pharmacy-backend/internal/errors"
	"pharmacy-backend/internal/model"
)

func newOrder(userID uint, status model.OrderStatus, remoteID *string) *model.PaymentOrder {
	return &model.PaymentOrder{
		LocalID:       uuid.NewString(),
		UserID:        userID,
		Total:         90.00,
		LineItemsJSON: `[{"product_id":1,"quantity":2,"unit_price":45}]`,
		Status:        status,
		PaymentMethod: model.MethodPaypal,
		RemoteOrderID: remoteID,
	}
}

func strPtr(s string) *string {
	return &s
}

func TestPaymentRepository_CreateAndFind(t *testing.T) {
	repo := NewPaymentRepository(newTestDB(t))
	ctx := context.Background()

	order := newOrder(42, model.StatusProcessing, strPtr("PAY-1"))
	require.NoError(t, repo.Create(ctx, order))

	byLocal, err := repo.FindByLocalID(ctx, order.LocalID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusProcessing, byLocal.Status)
	assert.False(t, byLocal.Synchronized)
	assert.Positive(t, byLocal.CreatedAt)

	byRemote, err := repo.FindByRemoteOrderID(ctx, "PAY-1")
	require.NoError(t, err)
	assert.Equal(t, order.LocalID, byRemote.LocalID)
}

func TestPaymentRepository_FindMissing(t *testing.T) {
	repo := NewPaymentRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.FindByLocalID(ctx, "nope")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = repo.FindByRemoteOrderID(ctx, "nope")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestPaymentRepository_UpdateStatusByRemoteID(t *testing.T) {
	repo := NewPaymentRepository(newTestDB(t))
	ctx := context.Background()

	order := newOrder(42, model.StatusProcessing, strPtr("PAY-1"))
	require.NoError(t, repo.Create(ctx, order))

	err := repo.UpdateStatusByRemoteID(ctx, "PAY-1", model.StatusCompleted, strPtr("PAYER-9"), nil)
	require.NoError(t, err)

	updated, err := repo.FindByLocalID(ctx, order.LocalID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, updated.Status)
	require.NotNil(t, updated.RemotePayerID)
	assert.Equal(t, "PAYER-9", *updated.RemotePayerID)
	assert.GreaterOrEqual(t, updated.UpdatedAt, updated.CreatedAt)
	// the remote id must survive every status update
	require.NotNil(t, updated.RemoteOrderID)
	assert.Equal(t, "PAY-1", *updated.RemoteOrderID)
}

func TestPaymentRepository_UpdateStatusMissingRow(t *testing.T) {
	repo := NewPaymentRepository(newTestDB(t))

	err := repo.UpdateStatusByRemoteID(context.Background(), "ghost", model.StatusFailed, nil, nil)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestPaymentRepository_ListByUserNewestFirst(t *testing.T) {
	repo := NewPaymentRepository(newTestDB(t))
	ctx := context.Background()

	first := newOrder(7, model.StatusCompleted, nil)
	first.CreatedAt = 1000
	second := newOrder(7, model.StatusPending, nil)
	second.CreatedAt = 2000
	other := newOrder(8, model.StatusPending, nil)

	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, other))

	orders, err := repo.ListByUser(ctx, 7)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.LocalID, orders[0].LocalID)
	assert.Equal(t, first.LocalID, orders[1].LocalID)
}

func TestPaymentRepository_ListUnsynchronizedAndMark(t *testing.T) {
	repo := NewPaymentRepository(newTestDB(t))
	ctx := context.Background()

	done := newOrder(1, model.StatusCompleted, strPtr("PAY-A"))
	pending := newOrder(1, model.StatusProcessing, strPtr("PAY-B"))
	require.NoError(t, repo.Create(ctx, done))
	require.NoError(t, repo.Create(ctx, pending))

	unsynced, err := repo.ListUnsynchronized(ctx)
	require.NoError(t, err)
	assert.Len(t, unsynced, 2)

	require.NoError(t, repo.MarkSynchronized(ctx, done.LocalID))

	unsynced, err = repo.ListUnsynchronized(ctx)
	require.NoError(t, err)
	require.Len(t, unsynced, 1)
	assert.Equal(t, pending.LocalID, unsynced[0].LocalID)
}
