package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	apperr "pharmacy-backend/internal/errors"
	"pharmacy-backend/internal/model"
)

// PaymentRepository is the local payment ledger. Rows are never hard-deleted
// here; they are retained as the audit trail of every checkout attempt.
type PaymentRepository interface {
	Create(ctx context.Context, order *model.PaymentOrder) error
	FindByLocalID(ctx context.Context, localID string) (*model.PaymentOrder, error)
	FindByRemoteOrderID(ctx context.Context, remoteOrderID string) (*model.PaymentOrder, error)
	ListByUser(ctx context.Context, userID uint) ([]*model.PaymentOrder, error)
	ListUnsynchronized(ctx context.Context) ([]*model.PaymentOrder, error)
	UpdateStatus(ctx context.Context, localID string, status model.OrderStatus, payerID, errorMessage *string) error
	UpdateStatusByRemoteID(ctx context.Context, remoteOrderID string, status model.OrderStatus, payerID, errorMessage *string) error
	MarkSynchronized(ctx context.Context, localID string) error
	Count(ctx context.Context) (int64, error)
}

type paymentRepoImpl struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepoImpl{
		db: db,
	}
}

func (r *paymentRepoImpl) Create(ctx context.Context, order *model.PaymentOrder) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return apperr.Wrap(apperr.ErrStorage, "insert payment order: %v", err)
	}
	return nil
}

func (r *paymentRepoImpl) FindByLocalID(ctx context.Context, localID string) (*model.PaymentOrder, error) {
	var order model.PaymentOrder
	err := r.db.WithContext(ctx).
		Where("local_id = ?", localID).
		First(&order).Error
	if err != nil {
		return nil, wrapLookupErr(err, "payment order %s", localID)
	}

	return &order, nil
}

func (r *paymentRepoImpl) FindByRemoteOrderID(ctx context.Context, remoteOrderID string) (*model.PaymentOrder, error) {
	var order model.PaymentOrder
	err := r.db.WithContext(ctx).
		Where("remote_order_id = ?", remoteOrderID).
		First(&order).Error
	if err != nil {
		return nil, wrapLookupErr(err, "payment order for remote id %s", remoteOrderID)
	}

	return &order, nil
}

func (r *paymentRepoImpl) ListByUser(ctx context.Context, userID uint) ([]*model.PaymentOrder, error) {
	var orders []*model.PaymentOrder
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStorage, "list payment orders: %v", err)
	}

	return orders, nil
}

func (r *paymentRepoImpl) ListUnsynchronized(ctx context.Context) ([]*model.PaymentOrder, error) {
	var orders []*model.PaymentOrder
	err := r.db.WithContext(ctx).
		Where("synchronized = ?", false).
		Find(&orders).Error
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrStorage, "list unsynchronized orders: %v", err)
	}

	return orders, nil
}

func (r *paymentRepoImpl) UpdateStatus(ctx context.Context, localID string, status model.OrderStatus, payerID, errorMessage *string) error {
	return r.updateStatus(ctx, "local_id = ?", localID, status, payerID, errorMessage)
}

func (r *paymentRepoImpl) UpdateStatusByRemoteID(ctx context.Context, remoteOrderID string, status model.OrderStatus, payerID, errorMessage *string) error {
	return r.updateStatus(ctx, "remote_order_id = ?", remoteOrderID, status, payerID, errorMessage)
}

func (r *paymentRepoImpl) updateStatus(ctx context.Context, cond string, key string, status model.OrderStatus, payerID, errorMessage *string) error {
	updates := map[string]interface{}{
		"status":        status,
		"error_message": errorMessage,
		"updated_at":    time.Now().UnixMilli(),
	}
	if payerID != nil {
		updates["remote_payer_id"] = *payerID
	}

	result := r.db.WithContext(ctx).Model(&model.PaymentOrder{}).
		Where(cond, key).
		Updates(updates)
	if result.Error != nil {
		return apperr.Wrap(apperr.ErrStorage, "update payment order status: %v", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.Wrap(apperr.ErrNotFound, "payment order %s not found", key)
	}

	return nil
}

func (r *paymentRepoImpl) MarkSynchronized(ctx context.Context, localID string) error {
	result := r.db.WithContext(ctx).Model(&model.PaymentOrder{}).
		Where("local_id = ?", localID).
		Updates(map[string]interface{}{
			"synchronized": true,
			"updated_at":   time.Now().UnixMilli(),
		})
	if result.Error != nil {
		return apperr.Wrap(apperr.ErrStorage, "mark order synchronized: %v", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.Wrap(apperr.ErrNotFound, "payment order %s not found", localID)
	}

	return nil
}

func (r *paymentRepoImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.PaymentOrder{}).Count(&count).Error
	if err != nil {
		return 0, apperr.Wrap(apperr.ErrStorage, "count payment orders: %v", err)
	}

	return count, nil
}

func wrapLookupErr(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Wrap(apperr.ErrNotFound, format+": not found", args...)
	}
	return apperr.Wrap(apperr.ErrStorage, "lookup failed: %v", err)
}
